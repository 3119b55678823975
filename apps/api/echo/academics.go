package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/vikasdeshmukh63/school-application-dashboard/core"
	"github.com/vikasdeshmukh63/school-application-dashboard/core/access"
	"github.com/vikasdeshmukh63/school-application-dashboard/core/school"
)

// Subjects

type subjectApi struct {
	svc    *school.Service
	logger core.Logger
}

func registerSubjectAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *school.Service, logger core.Logger) {
	api := subjectApi{svc: svc, logger: logger}

	sg := g.Group("/subjects", jwt)
	sg.GET("", api.list, adminMiddleware())
	sg.POST("", api.create, adminMiddleware())
	sg.PUT("/:id", api.update, adminMiddleware())
	sg.DELETE("/:id", api.destroy, adminMiddleware())
}

func (api *subjectApi) list(ctx echo.Context) error {
	actor, err := contextActor(ctx)
	if err != nil {
		return err
	}
	page := pageNumber(ctx)

	var filter school.SubjectFilter
	if err := ctx.Bind(&filter); err != nil {
		// bad filter values are dropped, the role scope still applies
		api.logger.Warn("dropping unparsable subject filter", err)
		filter = school.SubjectFilter{}
	}
	filter.Clean()

	items, count, err := api.svc.ListSubjects(ctx.Request().Context(), actor, filter, page)
	return renderList(ctx, items, count, page, errors.Wrap(err, "listing subjects"))
}

func (api *subjectApi) create(ctx echo.Context) error {
	actor, err := contextActor(ctx)
	if err != nil {
		return err
	}
	var data school.NewSubject
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSubject")
	}
	_, err = api.svc.CreateSubject(ctx.Request().Context(), actor, data)
	return mutationDone(ctx, api.logger, err)
}

func (api *subjectApi) update(ctx echo.Context) error {
	actor, err := contextActor(ctx)
	if err != nil {
		return err
	}
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	var data school.UpdateSubject
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateSubject")
	}
	_, err = api.svc.UpdateSubject(ctx.Request().Context(), actor, id, data)
	return mutationDone(ctx, api.logger, err)
}

func (api *subjectApi) destroy(ctx echo.Context) error {
	actor, err := contextActor(ctx)
	if err != nil {
		return err
	}
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	err = api.svc.DeleteSubject(ctx.Request().Context(), actor, id)
	return mutationDone(ctx, api.logger, err)
}

// Classes

type classApi struct {
	svc    *school.Service
	logger core.Logger
}

func registerClassAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *school.Service, logger core.Logger) {
	api := classApi{svc: svc, logger: logger}

	cg := g.Group("/classes", jwt)
	cg.GET("", api.list, roleMiddleware(access.RoleAdmin, access.RoleTeacher))
	cg.POST("", api.create, adminMiddleware())
	cg.PUT("/:id", api.update, adminMiddleware())
	cg.DELETE("/:id", api.destroy, adminMiddleware())
}

func (api *classApi) list(ctx echo.Context) error {
	actor, err := contextActor(ctx)
	if err != nil {
		return err
	}
	page := pageNumber(ctx)

	var filter school.ClassFilter
	if err := ctx.Bind(&filter); err != nil {
		// bad filter values are dropped, the role scope still applies
		api.logger.Warn("dropping unparsable class filter", err)
		filter = school.ClassFilter{}
	}
	filter.Clean()

	items, count, err := api.svc.ListClasses(ctx.Request().Context(), actor, filter, page)
	return renderList(ctx, items, count, page, errors.Wrap(err, "listing classes"))
}

func (api *classApi) create(ctx echo.Context) error {
	actor, err := contextActor(ctx)
	if err != nil {
		return err
	}
	var data school.NewClass
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewClass")
	}
	_, err = api.svc.CreateClass(ctx.Request().Context(), actor, data)
	return mutationDone(ctx, api.logger, err)
}

func (api *classApi) update(ctx echo.Context) error {
	actor, err := contextActor(ctx)
	if err != nil {
		return err
	}
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	var data school.UpdateClass
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateClass")
	}
	_, err = api.svc.UpdateClass(ctx.Request().Context(), actor, id, data)
	return mutationDone(ctx, api.logger, err)
}

func (api *classApi) destroy(ctx echo.Context) error {
	actor, err := contextActor(ctx)
	if err != nil {
		return err
	}
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	err = api.svc.DeleteClass(ctx.Request().Context(), actor, id)
	return mutationDone(ctx, api.logger, err)
}

// Lessons

type lessonApi struct {
	svc    *school.Service
	logger core.Logger
}

func registerLessonAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *school.Service, logger core.Logger) {
	api := lessonApi{svc: svc, logger: logger}

	lg := g.Group("/lessons", jwt)
	lg.GET("", api.list, roleMiddleware(access.RoleAdmin, access.RoleTeacher))
	lg.POST("", api.create, roleMiddleware(access.RoleAdmin, access.RoleTeacher))
	lg.PUT("/:id", api.update, roleMiddleware(access.RoleAdmin, access.RoleTeacher))
	lg.DELETE("/:id", api.destroy, roleMiddleware(access.RoleAdmin, access.RoleTeacher))
}

func (api *lessonApi) list(ctx echo.Context) error {
	actor, err := contextActor(ctx)
	if err != nil {
		return err
	}
	page := pageNumber(ctx)

	var filter school.LessonFilter
	if err := ctx.Bind(&filter); err != nil {
		// bad filter values are dropped, the role scope still applies
		api.logger.Warn("dropping unparsable lesson filter", err)
		filter = school.LessonFilter{}
	}
	filter.Clean()

	items, count, err := api.svc.ListLessons(ctx.Request().Context(), actor, filter, page)
	return renderList(ctx, items, count, page, errors.Wrap(err, "listing lessons"))
}

func (api *lessonApi) create(ctx echo.Context) error {
	actor, err := contextActor(ctx)
	if err != nil {
		return err
	}
	var data school.NewLesson
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewLesson")
	}
	_, err = api.svc.CreateLesson(ctx.Request().Context(), actor, data)
	return mutationDone(ctx, api.logger, err)
}

func (api *lessonApi) update(ctx echo.Context) error {
	actor, err := contextActor(ctx)
	if err != nil {
		return err
	}
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	var data school.UpdateLesson
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateLesson")
	}
	_, err = api.svc.UpdateLesson(ctx.Request().Context(), actor, id, data)
	return mutationDone(ctx, api.logger, err)
}

func (api *lessonApi) destroy(ctx echo.Context) error {
	actor, err := contextActor(ctx)
	if err != nil {
		return err
	}
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	err = api.svc.DeleteLesson(ctx.Request().Context(), actor, id)
	return mutationDone(ctx, api.logger, err)
}
