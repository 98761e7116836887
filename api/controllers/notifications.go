package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/angelmondragon/affilidash-backend/api/responses"
	"github.com/angelmondragon/affilidash-backend/api/validators"
	"github.com/angelmondragon/affilidash-backend/internal/notify"
	pkgerrors "github.com/angelmondragon/affilidash-backend/pkg/errors"
	"github.com/angelmondragon/affilidash-backend/pkg/logger"
)

// NotificationsService exposes the session inbox and forwards state
// mutations to the upstream API before applying them locally.
type NotificationsService interface {
	Notifications(now time.Time) []notify.Formatted
	SetNotificationsRead(ctx context.Context, ids []string, read bool) error
	DeleteNotifications(ctx context.Context, ids []string) error
}

type notificationIDsRequest struct {
	NotificationIDs []string `json:"notification_ids" validate:"required,min=1,dive,required"`
}

// ListNotifications returns the inbox in display form, newest first.
func ListNotifications(svc NotificationsService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "notifications service unavailable"))
			return
		}
		responses.WriteSuccess(w, svc.Notifications(time.Now().UTC()))
	}
}

// MarkNotificationsRead flags the given notifications as read.
func MarkNotificationsRead(svc NotificationsService, logg *logger.Logger) http.HandlerFunc {
	return setNotificationsRead(svc, logg, true)
}

// MarkNotificationsUnread clears the read flag on the given notifications.
func MarkNotificationsUnread(svc NotificationsService, logg *logger.Logger) http.HandlerFunc {
	return setNotificationsRead(svc, logg, false)
}

func setNotificationsRead(svc NotificationsService, logg *logger.Logger, read bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "notifications service unavailable"))
			return
		}

		var req notificationIDsRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.SetNotificationsRead(r.Context(), req.NotificationIDs, read); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"updated": true})
	}
}

// DeleteNotifications removes the given notifications upstream and locally.
func DeleteNotifications(svc NotificationsService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "notifications service unavailable"))
			return
		}

		var req notificationIDsRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteNotifications(r.Context(), req.NotificationIDs); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"deleted": true})
	}
}
