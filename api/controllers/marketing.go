package controllers

import (
	"net/http"

	"github.com/openshophq/openshop-backend/api/responses"
	"github.com/openshophq/openshop-backend/api/validators"
	marketingsvc "github.com/openshophq/openshop-backend/internal/marketing"
	pkgerrors "github.com/openshophq/openshop-backend/pkg/errors"
	"github.com/openshophq/openshop-backend/pkg/logger"
)

// MarketingSubscribe acknowledges a mailing list opt-in.
func MarketingSubscribe(svc marketingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "marketing service unavailable"))
			return
		}

		var body marketingsvc.SubscribeRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Subscribe(r.Context(), body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "subscribed"})
	}
}

// MarketingUnsubscribe acknowledges a mailing list opt-out.
func MarketingUnsubscribe(svc marketingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "marketing service unavailable"))
			return
		}

		var body marketingsvc.SubscribeRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Unsubscribe(r.Context(), body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "unsubscribed"})
	}
}
