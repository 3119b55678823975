package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/vikasdeshmukh63/school-application-dashboard/core"
	"github.com/vikasdeshmukh63/school-application-dashboard/core/access"
	"github.com/vikasdeshmukh63/school-application-dashboard/core/school"
)

var (
	allRoles      = []access.Role{access.RoleAdmin, access.RoleTeacher, access.RoleStudent, access.RoleParent}
	teachingRoles = []access.Role{access.RoleAdmin, access.RoleTeacher}
)

// Exams

type examApi struct {
	svc    *school.Service
	logger core.Logger
}

func registerExamAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *school.Service, logger core.Logger) {
	api := examApi{svc: svc, logger: logger}

	eg := g.Group("/exams", jwt)
	eg.GET("", api.list, roleMiddleware(allRoles...))
	eg.POST("", api.create, roleMiddleware(teachingRoles...))
	eg.PUT("/:id", api.update, roleMiddleware(teachingRoles...))
	eg.DELETE("/:id", api.destroy, roleMiddleware(teachingRoles...))
}

func (api *examApi) list(ctx echo.Context) error {
	actor, err := contextActor(ctx)
	if err != nil {
		return err
	}
	page := pageNumber(ctx)

	var filter school.ExamFilter
	if err := ctx.Bind(&filter); err != nil {
		// bad filter values are dropped, the role scope still applies
		api.logger.Warn("dropping unparsable exam filter", err)
		filter = school.ExamFilter{}
	}
	filter.Clean()

	items, count, err := api.svc.ListExams(ctx.Request().Context(), actor, filter, page)
	return renderList(ctx, items, count, page, errors.Wrap(err, "listing exams"))
}

func (api *examApi) create(ctx echo.Context) error {
	actor, err := contextActor(ctx)
	if err != nil {
		return err
	}
	var data school.NewExam
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewExam")
	}
	_, err = api.svc.CreateExam(ctx.Request().Context(), actor, data)
	return mutationDone(ctx, api.logger, err)
}

func (api *examApi) update(ctx echo.Context) error {
	actor, err := contextActor(ctx)
	if err != nil {
		return err
	}
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	var data school.UpdateExam
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateExam")
	}
	_, err = api.svc.UpdateExam(ctx.Request().Context(), actor, id, data)
	return mutationDone(ctx, api.logger, err)
}

func (api *examApi) destroy(ctx echo.Context) error {
	actor, err := contextActor(ctx)
	if err != nil {
		return err
	}
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	err = api.svc.DeleteExam(ctx.Request().Context(), actor, id)
	return mutationDone(ctx, api.logger, err)
}

// Assignments

type assignmentApi struct {
	svc    *school.Service
	logger core.Logger
}

func registerAssignmentAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *school.Service, logger core.Logger) {
	api := assignmentApi{svc: svc, logger: logger}

	ag := g.Group("/assignments", jwt)
	ag.GET("", api.list, roleMiddleware(allRoles...))
	ag.POST("", api.create, roleMiddleware(teachingRoles...))
	ag.PUT("/:id", api.update, roleMiddleware(teachingRoles...))
	ag.DELETE("/:id", api.destroy, roleMiddleware(teachingRoles...))
}

func (api *assignmentApi) list(ctx echo.Context) error {
	actor, err := contextActor(ctx)
	if err != nil {
		return err
	}
	page := pageNumber(ctx)

	var filter school.AssignmentFilter
	if err := ctx.Bind(&filter); err != nil {
		// bad filter values are dropped, the role scope still applies
		api.logger.Warn("dropping unparsable assignment filter", err)
		filter = school.AssignmentFilter{}
	}
	filter.Clean()

	items, count, err := api.svc.ListAssignments(ctx.Request().Context(), actor, filter, page)
	return renderList(ctx, items, count, page, errors.Wrap(err, "listing assignments"))
}

func (api *assignmentApi) create(ctx echo.Context) error {
	actor, err := contextActor(ctx)
	if err != nil {
		return err
	}
	var data school.NewAssignment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAssignment")
	}
	_, err = api.svc.CreateAssignment(ctx.Request().Context(), actor, data)
	return mutationDone(ctx, api.logger, err)
}

func (api *assignmentApi) update(ctx echo.Context) error {
	actor, err := contextActor(ctx)
	if err != nil {
		return err
	}
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	var data school.UpdateAssignment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateAssignment")
	}
	_, err = api.svc.UpdateAssignment(ctx.Request().Context(), actor, id, data)
	return mutationDone(ctx, api.logger, err)
}

func (api *assignmentApi) destroy(ctx echo.Context) error {
	actor, err := contextActor(ctx)
	if err != nil {
		return err
	}
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	err = api.svc.DeleteAssignment(ctx.Request().Context(), actor, id)
	return mutationDone(ctx, api.logger, err)
}

// Results

type resultApi struct {
	svc    *school.Service
	logger core.Logger
}

func registerResultAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *school.Service, logger core.Logger) {
	api := resultApi{svc: svc, logger: logger}

	rg := g.Group("/results", jwt)
	rg.GET("", api.list, roleMiddleware(allRoles...))
	rg.POST("", api.create, roleMiddleware(teachingRoles...))
	rg.PUT("/:id", api.update, roleMiddleware(teachingRoles...))
	rg.DELETE("/:id", api.destroy, roleMiddleware(teachingRoles...))
}

func (api *resultApi) list(ctx echo.Context) error {
	actor, err := contextActor(ctx)
	if err != nil {
		return err
	}
	page := pageNumber(ctx)

	var filter school.ResultFilter
	if err := ctx.Bind(&filter); err != nil {
		// bad filter values are dropped, the role scope still applies
		api.logger.Warn("dropping unparsable result filter", err)
		filter = school.ResultFilter{}
	}
	filter.Clean()

	items, count, err := api.svc.ListResults(ctx.Request().Context(), actor, filter, page)
	return renderList(ctx, items, count, page, errors.Wrap(err, "listing results"))
}

func (api *resultApi) create(ctx echo.Context) error {
	actor, err := contextActor(ctx)
	if err != nil {
		return err
	}
	var data school.NewResult
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewResult")
	}
	_, err = api.svc.CreateResult(ctx.Request().Context(), actor, data)
	return mutationDone(ctx, api.logger, err)
}

func (api *resultApi) update(ctx echo.Context) error {
	actor, err := contextActor(ctx)
	if err != nil {
		return err
	}
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	var data school.UpdateResult
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateResult")
	}
	_, err = api.svc.UpdateResult(ctx.Request().Context(), actor, id, data)
	return mutationDone(ctx, api.logger, err)
}

func (api *resultApi) destroy(ctx echo.Context) error {
	actor, err := contextActor(ctx)
	if err != nil {
		return err
	}
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	err = api.svc.DeleteResult(ctx.Request().Context(), actor, id)
	return mutationDone(ctx, api.logger, err)
}

// Attendance

type attendanceApi struct {
	svc    *school.Service
	logger core.Logger
}

func registerAttendanceAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *school.Service, logger core.Logger) {
	api := attendanceApi{svc: svc, logger: logger}

	ag := g.Group("/attendances", jwt)
	ag.GET("", api.list, roleMiddleware(allRoles...))
	ag.POST("", api.create, roleMiddleware(teachingRoles...))
	ag.PUT("/:id", api.update, roleMiddleware(teachingRoles...))
	ag.DELETE("/:id", api.destroy, roleMiddleware(teachingRoles...))
}

func (api *attendanceApi) list(ctx echo.Context) error {
	actor, err := contextActor(ctx)
	if err != nil {
		return err
	}
	page := pageNumber(ctx)

	var filter school.AttendanceFilter
	if err := ctx.Bind(&filter); err != nil {
		// bad filter values are dropped, the role scope still applies
		api.logger.Warn("dropping unparsable attendance filter", err)
		filter = school.AttendanceFilter{}
	}
	filter.Clean()

	items, count, err := api.svc.ListAttendances(ctx.Request().Context(), actor, filter, page)
	return renderList(ctx, items, count, page, errors.Wrap(err, "listing attendances"))
}

func (api *attendanceApi) create(ctx echo.Context) error {
	actor, err := contextActor(ctx)
	if err != nil {
		return err
	}
	var data school.NewAttendance
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAttendance")
	}
	_, err = api.svc.CreateAttendance(ctx.Request().Context(), actor, data)
	return mutationDone(ctx, api.logger, err)
}

func (api *attendanceApi) update(ctx echo.Context) error {
	actor, err := contextActor(ctx)
	if err != nil {
		return err
	}
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	var data school.UpdateAttendance
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateAttendance")
	}
	_, err = api.svc.UpdateAttendance(ctx.Request().Context(), actor, id, data)
	return mutationDone(ctx, api.logger, err)
}

func (api *attendanceApi) destroy(ctx echo.Context) error {
	actor, err := contextActor(ctx)
	if err != nil {
		return err
	}
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	err = api.svc.DeleteAttendance(ctx.Request().Context(), actor, id)
	return mutationDone(ctx, api.logger, err)
}
