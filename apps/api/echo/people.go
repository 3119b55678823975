package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/vikasdeshmukh63/school-application-dashboard/core"
	"github.com/vikasdeshmukh63/school-application-dashboard/core/access"
	"github.com/vikasdeshmukh63/school-application-dashboard/core/school"
)

// Teachers

type teacherApi struct {
	svc    *school.Service
	logger core.Logger
}

func registerTeacherAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *school.Service, logger core.Logger) {
	api := teacherApi{svc: svc, logger: logger}

	tg := g.Group("/teachers", jwt)
	tg.GET("", api.list, roleMiddleware(access.RoleAdmin, access.RoleTeacher))
	tg.POST("", api.create, adminMiddleware())
	tg.PUT("/:id", api.update, adminMiddleware())
	tg.DELETE("/:id", api.destroy, adminMiddleware())
}

func (api *teacherApi) list(ctx echo.Context) error {
	actor, err := contextActor(ctx)
	if err != nil {
		return err
	}
	page := pageNumber(ctx)

	var filter school.TeacherFilter
	if err := ctx.Bind(&filter); err != nil {
		// bad filter values are dropped, the role scope still applies
		api.logger.Warn("dropping unparsable teacher filter", err)
		filter = school.TeacherFilter{}
	}
	filter.Clean()

	items, count, err := api.svc.ListTeachers(ctx.Request().Context(), actor, filter, page)
	return renderList(ctx, items, count, page, errors.Wrap(err, "listing teachers"))
}

func (api *teacherApi) create(ctx echo.Context) error {
	actor, err := contextActor(ctx)
	if err != nil {
		return err
	}
	var data school.NewTeacher
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewTeacher")
	}
	_, err = api.svc.CreateTeacher(ctx.Request().Context(), actor, data)
	return mutationDone(ctx, api.logger, err)
}

func (api *teacherApi) update(ctx echo.Context) error {
	actor, err := contextActor(ctx)
	if err != nil {
		return err
	}
	var data school.UpdateTeacher
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateTeacher")
	}
	_, err = api.svc.UpdateTeacher(ctx.Request().Context(), actor, ctx.Param("id"), data)
	return mutationDone(ctx, api.logger, err)
}

func (api *teacherApi) destroy(ctx echo.Context) error {
	actor, err := contextActor(ctx)
	if err != nil {
		return err
	}
	err = api.svc.DeleteTeacher(ctx.Request().Context(), actor, ctx.Param("id"))
	return mutationDone(ctx, api.logger, err)
}

// Students

type studentApi struct {
	svc    *school.Service
	logger core.Logger
}

func registerStudentAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *school.Service, logger core.Logger) {
	api := studentApi{svc: svc, logger: logger}

	sg := g.Group("/students", jwt)
	sg.GET("", api.list, roleMiddleware(access.RoleAdmin, access.RoleTeacher))
	sg.POST("", api.create, adminMiddleware())
	sg.PUT("/:id", api.update, adminMiddleware())
	sg.DELETE("/:id", api.destroy, adminMiddleware())
}

func (api *studentApi) list(ctx echo.Context) error {
	actor, err := contextActor(ctx)
	if err != nil {
		return err
	}
	page := pageNumber(ctx)

	var filter school.StudentFilter
	if err := ctx.Bind(&filter); err != nil {
		// bad filter values are dropped, the role scope still applies
		api.logger.Warn("dropping unparsable student filter", err)
		filter = school.StudentFilter{}
	}
	filter.Clean()

	items, count, err := api.svc.ListStudents(ctx.Request().Context(), actor, filter, page)
	return renderList(ctx, items, count, page, errors.Wrap(err, "listing students"))
}

func (api *studentApi) create(ctx echo.Context) error {
	actor, err := contextActor(ctx)
	if err != nil {
		return err
	}
	var data school.NewStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewStudent")
	}
	_, err = api.svc.CreateStudent(ctx.Request().Context(), actor, data)
	return mutationDone(ctx, api.logger, err)
}

func (api *studentApi) update(ctx echo.Context) error {
	actor, err := contextActor(ctx)
	if err != nil {
		return err
	}
	var data school.UpdateStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateStudent")
	}
	_, err = api.svc.UpdateStudent(ctx.Request().Context(), actor, ctx.Param("id"), data)
	return mutationDone(ctx, api.logger, err)
}

func (api *studentApi) destroy(ctx echo.Context) error {
	actor, err := contextActor(ctx)
	if err != nil {
		return err
	}
	err = api.svc.DeleteStudent(ctx.Request().Context(), actor, ctx.Param("id"))
	return mutationDone(ctx, api.logger, err)
}

// Parents

type parentApi struct {
	svc    *school.Service
	logger core.Logger
}

func registerParentAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *school.Service, logger core.Logger) {
	api := parentApi{svc: svc, logger: logger}

	pg := g.Group("/parents", jwt)
	pg.GET("", api.list, roleMiddleware(access.RoleAdmin, access.RoleTeacher))
	pg.POST("", api.create, adminMiddleware())
	pg.PUT("/:id", api.update, adminMiddleware())
	pg.DELETE("/:id", api.destroy, adminMiddleware())
}

func (api *parentApi) list(ctx echo.Context) error {
	actor, err := contextActor(ctx)
	if err != nil {
		return err
	}
	page := pageNumber(ctx)

	var filter school.ParentFilter
	if err := ctx.Bind(&filter); err != nil {
		// bad filter values are dropped, the role scope still applies
		api.logger.Warn("dropping unparsable parent filter", err)
		filter = school.ParentFilter{}
	}
	filter.Clean()

	items, count, err := api.svc.ListParents(ctx.Request().Context(), actor, filter, page)
	return renderList(ctx, items, count, page, errors.Wrap(err, "listing parents"))
}

func (api *parentApi) create(ctx echo.Context) error {
	actor, err := contextActor(ctx)
	if err != nil {
		return err
	}
	var data school.NewParent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewParent")
	}
	_, err = api.svc.CreateParent(ctx.Request().Context(), actor, data)
	return mutationDone(ctx, api.logger, err)
}

func (api *parentApi) update(ctx echo.Context) error {
	actor, err := contextActor(ctx)
	if err != nil {
		return err
	}
	var data school.UpdateParent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateParent")
	}
	_, err = api.svc.UpdateParent(ctx.Request().Context(), actor, ctx.Param("id"), data)
	return mutationDone(ctx, api.logger, err)
}

func (api *parentApi) destroy(ctx echo.Context) error {
	actor, err := contextActor(ctx)
	if err != nil {
		return err
	}
	err = api.svc.DeleteParent(ctx.Request().Context(), actor, ctx.Param("id"))
	return mutationDone(ctx, api.logger, err)
}
