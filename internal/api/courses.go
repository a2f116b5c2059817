package api

import (
	"net/http"
	"time"

	"infinite-experiment/coursehub/internal/auth"
	"infinite-experiment/coursehub/internal/common"
	"infinite-experiment/coursehub/internal/constants"
	"infinite-experiment/coursehub/internal/models/dtos"
	"infinite-experiment/coursehub/internal/services"

	"github.com/go-chi/chi/v5"
)

// ListMyCoursesHandler handles GET /api/courses
//
// @Summary      List courses
// @Description  Platform admins see every active course, everyone else their active memberships
// @Tags         Courses
// @Produce      json
// @Success      200  {object}  dtos.APIResponse
// @Router       /api/courses [get]
func ListMyCoursesHandler(courseSvc *services.CourseService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		claims := auth.GetUserClaims(r.Context())

		courses, err := courseSvc.ListForUser(r.Context(), claims)
		respondList(w, r, initTime, courses, err, "Courses")
	}
}

// GetCourseHandler handles GET /api/courses/{courseId}
func GetCourseHandler(courseSvc *services.CourseService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		course, err := courseSvc.Get(r.Context(), chi.URLParam(r, "courseId"))
		if err != nil {
			respondServiceError(w, r, initTime, err, "Failed to fetch course")
			return
		}
		common.RespondSuccess(w, initTime, "Course fetched successfully", course)
	}
}

// CreateCourseHandler handles POST /api/courses
//
// @Summary      Create course
// @Description  Registers a course and, optionally, the credentials of its database
// @Tags         Courses
// @Accept       json
// @Produce      json
// @Param        input  body  dtos.CreateCourseRequest  true  "Course"
// @Success      201  {object}  dtos.APIResponse
// @Failure      400  {object}  dtos.APIResponse
// @Router       /api/courses [post]
func CreateCourseHandler(courseSvc *services.CourseService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		claims := auth.GetUserClaims(r.Context())

		var req dtos.CreateCourseRequest
		if err := decodeJSON(w, r, &req); err != nil {
			common.RespondError(w, initTime, err, constants.MsgInvalidInput, http.StatusBadRequest)
			return
		}

		course, err := courseSvc.CreateCourse(r.Context(), claims.UserID(), req)
		if err != nil {
			respondServiceError(w, r, initTime, err, "Failed to create course")
			return
		}
		common.RespondSuccess(w, initTime, "Course created", course, http.StatusCreated)
	}
}

// UpdateCourseHandler handles PATCH /api/courses/{courseId}
func UpdateCourseHandler(courseSvc *services.CourseService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		var req dtos.UpdateCourseRequest
		if err := decodeJSON(w, r, &req); err != nil {
			common.RespondError(w, initTime, err, constants.MsgInvalidInput, http.StatusBadRequest)
			return
		}

		course, err := courseSvc.Update(r.Context(), chi.URLParam(r, "courseId"), req)
		if err != nil {
			respondServiceError(w, r, initTime, err, "Failed to update course")
			return
		}
		common.RespondSuccess(w, initTime, "Course updated", course)
	}
}

// ListAllCoursesHandler handles GET /api/admin/courses, archived courses included.
func ListAllCoursesHandler(courseSvc *services.CourseService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		courses, err := courseSvc.ListAll(r.Context())
		respondList(w, r, initTime, courses, err, "Courses")
	}
}

// SetCourseActiveHandler handles POST /api/admin/courses/{courseId}/archive
// and /restore.
func SetCourseActiveHandler(courseSvc *services.CourseService, active bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		courseID := chi.URLParam(r, "courseId")

		if err := courseSvc.SetActive(r.Context(), courseID, active); err != nil {
			respondServiceError(w, r, initTime, err, "Failed to update course")
			return
		}
		common.RespondSuccess(w, initTime, "Course updated", map[string]interface{}{
			"id":       courseID,
			"isActive": active,
		})
	}
}

// RotateCredentialsHandler handles PUT /api/admin/courses/{courseId}/credentials
//
// @Summary      Rotate course database credentials
// @Description  Stores new credentials and drops the cached connection so the next request reconnects
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        courseId  path  string                         true  "Course ID"
// @Param        input     body  dtos.RotateCredentialsRequest  true  "Credentials"
// @Success      200  {object}  dtos.APIResponse
// @Failure      400,404  {object}  dtos.APIResponse
// @Router       /api/admin/courses/{courseId}/credentials [put]
func RotateCredentialsHandler(courseSvc *services.CourseService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		courseID := chi.URLParam(r, "courseId")

		var req dtos.RotateCredentialsRequest
		if err := decodeJSON(w, r, &req); err != nil {
			common.RespondError(w, initTime, err, constants.MsgInvalidInput, http.StatusBadRequest)
			return
		}

		if err := courseSvc.RotateCredentials(r.Context(), courseID, req); err != nil {
			respondServiceError(w, r, initTime, err, "Failed to rotate credentials")
			return
		}
		common.RespondSuccess(w, initTime, "Credentials rotated", map[string]string{"courseId": courseID})
	}
}

// ListMembersHandler handles GET /api/admin/courses/{courseId}/members
func ListMembersHandler(courseSvc *services.CourseService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		members, err := courseSvc.ListMembers(r.Context(), chi.URLParam(r, "courseId"))
		respondList(w, r, initTime, members, err, "Members")
	}
}

// AddMemberHandler handles POST /api/admin/courses/{courseId}/members
func AddMemberHandler(courseSvc *services.CourseService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		var req dtos.AddMemberRequest
		if err := decodeJSON(w, r, &req); err != nil {
			common.RespondError(w, initTime, err, constants.MsgInvalidInput, http.StatusBadRequest)
			return
		}

		m, err := courseSvc.AddMember(r.Context(), chi.URLParam(r, "courseId"), req)
		if err != nil {
			respondServiceError(w, r, initTime, err, "Failed to add member")
			return
		}
		common.RespondSuccess(w, initTime, "Member added", m, http.StatusCreated)
	}
}

// UpdateMemberHandler handles PATCH /api/admin/courses/{courseId}/members/{userId}
func UpdateMemberHandler(courseSvc *services.CourseService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		var req dtos.UpdateMemberRequest
		if err := decodeJSON(w, r, &req); err != nil {
			common.RespondError(w, initTime, err, constants.MsgInvalidInput, http.StatusBadRequest)
			return
		}

		m, err := courseSvc.UpdateMember(r.Context(), chi.URLParam(r, "courseId"), chi.URLParam(r, "userId"), req)
		if err != nil {
			respondServiceError(w, r, initTime, err, "Failed to update member")
			return
		}
		common.RespondSuccess(w, initTime, "Member updated", m)
	}
}

// RemoveMemberHandler handles DELETE /api/admin/courses/{courseId}/members/{userId}
func RemoveMemberHandler(courseSvc *services.CourseService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		if err := courseSvc.RemoveMember(r.Context(), chi.URLParam(r, "courseId"), chi.URLParam(r, "userId")); err != nil {
			respondServiceError(w, r, initTime, err, "Failed to remove member")
			return
		}
		common.RespondSuccess(w, initTime, "Member removed", nil)
	}
}
