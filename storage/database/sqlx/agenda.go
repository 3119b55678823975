package sqlxrepos

import (
	"context"

	"github.com/pkg/errors"

	"github.com/vikasdeshmukh63/school-application-dashboard/core/access"
	"github.com/vikasdeshmukh63/school-application-dashboard/core/school"
)

const eventSelect = `
SELECT event.*, c.name AS class_name
  FROM event
  LEFT JOIN "class" c ON c.id = event.class_id`

func (repo repository) ListEvents(ctx context.Context, where access.Expr, page school.Page) ([]school.Event, int, error) {
	events := make([]school.Event, 0, page.Size)
	total, err := repo.list(ctx, &events, eventSelect, "event", "event.start_time DESC", where, page)
	return events, total, err
}

func (repo repository) CreateEvent(ctx context.Context, e school.Event) (school.Event, error) {
	const q = `
		INSERT INTO event (title, description, start_time, end_time, class_id)
		VALUES ($1, $2, $3, $4, $5) RETURNING id`
	if err := repo.db.GetContext(ctx, &e.ID, q, e.Title, e.Description, e.StartTime, e.EndTime, e.ClassID); err != nil {
		return school.Event{}, errors.Wrap(err, "inserting event")
	}
	return e, nil
}

func (repo repository) UpdateEvent(ctx context.Context, e school.Event) (school.Event, error) {
	const q = `
		UPDATE event
		   SET title = $1, description = $2, start_time = $3, end_time = $4, class_id = $5
		 WHERE id = $6`
	if _, err := repo.db.ExecContext(ctx, q, e.Title, e.Description, e.StartTime, e.EndTime, e.ClassID, e.ID); err != nil {
		return school.Event{}, errors.Wrap(err, "updating event")
	}
	return e, nil
}

func (repo repository) DeleteEvent(ctx context.Context, id int) error {
	if _, err := repo.db.ExecContext(ctx, "DELETE FROM event WHERE id = $1", id); err != nil {
		return errors.Wrap(err, "deleting event")
	}
	return nil
}

const announcementSelect = `
SELECT announcement.*, c.name AS class_name
  FROM announcement
  LEFT JOIN "class" c ON c.id = announcement.class_id`

func (repo repository) ListAnnouncements(ctx context.Context, where access.Expr, page school.Page) ([]school.Announcement, int, error) {
	announcements := make([]school.Announcement, 0, page.Size)
	total, err := repo.list(ctx, &announcements, announcementSelect, "announcement", "announcement.date DESC", where, page)
	return announcements, total, err
}

func (repo repository) CreateAnnouncement(ctx context.Context, a school.Announcement) (school.Announcement, error) {
	const q = `
		INSERT INTO announcement (title, description, date, class_id)
		VALUES ($1, $2, $3, $4) RETURNING id`
	if err := repo.db.GetContext(ctx, &a.ID, q, a.Title, a.Description, a.Date, a.ClassID); err != nil {
		return school.Announcement{}, errors.Wrap(err, "inserting announcement")
	}
	return a, nil
}

func (repo repository) UpdateAnnouncement(ctx context.Context, a school.Announcement) (school.Announcement, error) {
	const q = `
		UPDATE announcement
		   SET title = $1, description = $2, date = $3, class_id = $4
		 WHERE id = $5`
	if _, err := repo.db.ExecContext(ctx, q, a.Title, a.Description, a.Date, a.ClassID, a.ID); err != nil {
		return school.Announcement{}, errors.Wrap(err, "updating announcement")
	}
	return a, nil
}

func (repo repository) DeleteAnnouncement(ctx context.Context, id int) error {
	if _, err := repo.db.ExecContext(ctx, "DELETE FROM announcement WHERE id = $1", id); err != nil {
		return errors.Wrap(err, "deleting announcement")
	}
	return nil
}
