package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/vikasdeshmukh63/school-application-dashboard/core"
	"github.com/vikasdeshmukh63/school-application-dashboard/core/school"
)

// Events

type eventApi struct {
	svc    *school.Service
	logger core.Logger
}

func registerEventAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *school.Service, logger core.Logger) {
	api := eventApi{svc: svc, logger: logger}

	eg := g.Group("/events", jwt)
	eg.GET("", api.list, roleMiddleware(allRoles...))
	eg.POST("", api.create, adminMiddleware())
	eg.PUT("/:id", api.update, adminMiddleware())
	eg.DELETE("/:id", api.destroy, adminMiddleware())
}

func (api *eventApi) list(ctx echo.Context) error {
	actor, err := contextActor(ctx)
	if err != nil {
		return err
	}
	page := pageNumber(ctx)

	var filter school.EventFilter
	if err := ctx.Bind(&filter); err != nil {
		// bad filter values are dropped, the role scope still applies
		api.logger.Warn("dropping unparsable event filter", err)
		filter = school.EventFilter{}
	}
	filter.Clean()

	items, count, err := api.svc.ListEvents(ctx.Request().Context(), actor, filter, page)
	return renderList(ctx, items, count, page, errors.Wrap(err, "listing events"))
}

func (api *eventApi) create(ctx echo.Context) error {
	actor, err := contextActor(ctx)
	if err != nil {
		return err
	}
	var data school.NewEvent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewEvent")
	}
	_, err = api.svc.CreateEvent(ctx.Request().Context(), actor, data)
	return mutationDone(ctx, api.logger, err)
}

func (api *eventApi) update(ctx echo.Context) error {
	actor, err := contextActor(ctx)
	if err != nil {
		return err
	}
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	var data school.UpdateEvent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateEvent")
	}
	_, err = api.svc.UpdateEvent(ctx.Request().Context(), actor, id, data)
	return mutationDone(ctx, api.logger, err)
}

func (api *eventApi) destroy(ctx echo.Context) error {
	actor, err := contextActor(ctx)
	if err != nil {
		return err
	}
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	err = api.svc.DeleteEvent(ctx.Request().Context(), actor, id)
	return mutationDone(ctx, api.logger, err)
}

// Announcements

type announcementApi struct {
	svc    *school.Service
	logger core.Logger
}

func registerAnnouncementAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *school.Service, logger core.Logger) {
	api := announcementApi{svc: svc, logger: logger}

	ag := g.Group("/announcements", jwt)
	ag.GET("", api.list, roleMiddleware(allRoles...))
	ag.POST("", api.create, adminMiddleware())
	ag.PUT("/:id", api.update, adminMiddleware())
	ag.DELETE("/:id", api.destroy, adminMiddleware())
}

func (api *announcementApi) list(ctx echo.Context) error {
	actor, err := contextActor(ctx)
	if err != nil {
		return err
	}
	page := pageNumber(ctx)

	var filter school.AnnouncementFilter
	if err := ctx.Bind(&filter); err != nil {
		// bad filter values are dropped, the role scope still applies
		api.logger.Warn("dropping unparsable announcement filter", err)
		filter = school.AnnouncementFilter{}
	}
	filter.Clean()

	items, count, err := api.svc.ListAnnouncements(ctx.Request().Context(), actor, filter, page)
	return renderList(ctx, items, count, page, errors.Wrap(err, "listing announcements"))
}

func (api *announcementApi) create(ctx echo.Context) error {
	actor, err := contextActor(ctx)
	if err != nil {
		return err
	}
	var data school.NewAnnouncement
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAnnouncement")
	}
	_, err = api.svc.CreateAnnouncement(ctx.Request().Context(), actor, data)
	return mutationDone(ctx, api.logger, err)
}

func (api *announcementApi) update(ctx echo.Context) error {
	actor, err := contextActor(ctx)
	if err != nil {
		return err
	}
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	var data school.UpdateAnnouncement
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateAnnouncement")
	}
	_, err = api.svc.UpdateAnnouncement(ctx.Request().Context(), actor, id, data)
	return mutationDone(ctx, api.logger, err)
}

func (api *announcementApi) destroy(ctx echo.Context) error {
	actor, err := contextActor(ctx)
	if err != nil {
		return err
	}
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	err = api.svc.DeleteAnnouncement(ctx.Request().Context(), actor, id)
	return mutationDone(ctx, api.logger, err)
}
