package main

import (
	"net/http"

	"github.com/bmizerany/pat"
	"github.com/justinas/alice"
)

func (app *application) routes() http.Handler {
	standardMiddleware := alice.New(app.recoverPanic, app.logRequest, secureHeaders)

	mux := pat.New()

	// Listings
	mux.Get("/add-listing", standardMiddleware.ThenFunc(app.listingHandler.AddListingForm))
	mux.Post("/add-listing", standardMiddleware.ThenFunc(app.listingHandler.CreateListing))
	mux.Get("/listing/:id", standardMiddleware.ThenFunc(app.listingHandler.GetListingByID))

	// Premium payments
	mux.Get("/premium-payment/:id", standardMiddleware.ThenFunc(app.paymentHandler.PremiumPayment))
	mux.Post("/initiate-payment/:id", standardMiddleware.ThenFunc(app.paymentHandler.InitiatePayment))
	mux.Get("/payment/success/:id", standardMiddleware.ThenFunc(app.paymentHandler.PaymentSuccess))
	mux.Get("/payment/cancel/:id", standardMiddleware.ThenFunc(app.paymentHandler.PaymentCancel))
	mux.Post("/payment/notify", standardMiddleware.ThenFunc(app.paymentHandler.PaymentNotify))

	mux.Get("/healthz", standardMiddleware.ThenFunc(app.healthz))
	mux.Get("/", standardMiddleware.ThenFunc(app.listingHandler.Home))

	return mux
}
