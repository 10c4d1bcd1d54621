// Package actions wires every user action against one record store.
package actions

import (
	car "application-tracker/internal/actions/application/create-application-record"
	exa "application-tracker/internal/actions/application/export-applications"
	sea "application-tracker/internal/actions/application/search-applications"
	sn "application-tracker/internal/actions/application/send-notification"
	smr "application-tracker/internal/actions/application/summary-report"
	uar "application-tracker/internal/actions/application/update-application-record"
	uas "application-tracker/internal/actions/application/update-application-status"
	"application-tracker/internal/common/config"
	"application-tracker/internal/common/database"
	"application-tracker/internal/common/logger"
	"application-tracker/internal/common/validation"
	"application-tracker/internal/models"
)

// Registry holds one handler per action. Handlers keep no state between
// calls; every call reloads the table.
type Registry struct {
	Store     *database.CSVStore
	Validator *validation.Validator
	Statuses  []models.Status
	// InitialStatus is given to new applications submitted without one.
	InitialStatus models.Status

	Create       *car.Handler
	UpdateRecord *uar.Handler
	UpdateStatus *uas.Handler
	Search       *sea.Handler
	Summary      *smr.Handler
	Export       *exa.Handler
	Notify       *sn.Handler
}

// NewRegistry builds all handlers. ses may be nil; notifications are then
// reported as disabled.
func NewRegistry(cfg *config.Config, store *database.CSVStore, ses sn.SESService, log logger.Logger) *Registry {
	statuses := cfg.Statuses.Known()
	if len(statuses) == 0 {
		statuses = models.DefaultStatuses
	}
	validator := validation.New(statuses)
	notifier := sn.NewHandler(sn.LoadConfig(cfg.Notifications), ses, log)
	createCfg := car.LoadConfig(cfg.Statuses, cfg.Notifications)

	return &Registry{
		Store:     store,
		Validator: validator,
		Statuses:  statuses,

		InitialStatus: createCfg.InitialStatus,

		Create:       car.NewHandler(createCfg, store, validator, notifier, log),
		UpdateRecord: uar.NewHandler(uar.LoadConfig(cfg.Notifications), store, validator, notifier, log),
		UpdateStatus: uas.NewHandler(uas.LoadConfig(cfg.Notifications), store, validator, notifier, log),
		Search:       sea.NewHandler(sea.LoadConfig(cfg.Search), store, log),
		Summary:      smr.NewHandler(smr.LoadConfig(cfg.Statuses), store, log),
		Export:       exa.NewHandler(exa.LoadConfig(cfg.Export), store, log),
		Notify:       notifier,
	}
}
