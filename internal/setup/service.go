// Package setup implements the onboarding wizard procedures.
package setup

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/goinsights/goinsights/internal/datasource"
	"github.com/goinsights/goinsights/internal/db/controller/insights"
	"github.com/goinsights/goinsights/internal/db/controller/setting"
	"github.com/goinsights/goinsights/internal/db/models"
	"github.com/goinsights/goinsights/internal/queue"
)

// ConnectionTester checks that an unsaved data source is reachable.
type ConnectionTester interface {
	TestConnection(ctx context.Context, ds *models.DataSource) error
}

// SampleDataFactory seeds the demo dataset.
type SampleDataFactory interface {
	Run(ctx context.Context) error
}

// SurveySubmitter forwards survey responses. It reports no errors.
type SurveySubmitter interface {
	Submit(ctx context.Context, responses []byte)
}

// Service runs the setup procedures against the application database.
type Service struct {
	db      *gorm.DB
	tester  ConnectionTester
	factory SampleDataFactory
	survey  SurveySubmitter
	queue   queue.TaskQueue
}

// NewService creates a setup service.
func NewService(
	db *gorm.DB,
	tester ConnectionTester,
	factory SampleDataFactory,
	survey SurveySubmitter,
	q queue.TaskQueue,
) *Service {
	return &Service{db: db, tester: tester, factory: factory, survey: survey, queue: q}
}

// SetupComplete reports whether the wizard was finished.
func (s *Service) SetupComplete(ctx context.Context) (bool, error) {
	settings, err := s.settings(ctx)
	if err != nil {
		return false, err
	}

	return settings.SetupComplete, nil
}

// UpdateERPNextSourceTitle renames the Site DB data source.
func (s *Service) UpdateERPNextSourceTitle(ctx context.Context, title string) error {
	return datasource.SetTitle(ctx, s.db, models.SiteDBName, title)
}

// SetupSampleData creates the demo dataset. The dataset name is accepted
// for compatibility and ignored; there is a single demo dataset.
func (s *Service) SetupSampleData(ctx context.Context, _ string) error {
	return s.factory.Run(ctx)
}

// SubmitSurveyResponses forwards the responses to the telemetry endpoint.
func (s *Service) SubmitSurveyResponses(ctx context.Context, responses []byte) {
	s.survey.Submit(ctx, responses)
}

// TestDatabaseConnection builds the data source without saving it and
// connects to it. It returns true or the connection error.
func (s *Service) TestDatabaseConnection(ctx context.Context, in datasource.Input) (bool, error) {
	ds, err := datasource.New(in)
	if err != nil {
		return false, err
	}

	if err = s.tester.TestConnection(ctx, ds); err != nil {
		return false, err
	}

	return true, nil
}

// AddDatabase saves a new data source and schedules its table sync.
// A failed enqueue is logged; the data source stays saved.
func (s *Service) AddDatabase(ctx context.Context, in datasource.Input) (*models.DataSource, error) {
	ds, err := datasource.New(in)
	if err != nil {
		return nil, err
	}

	if err = s.db.WithContext(ctx).Create(ds).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: %s", datasource.ErrDataSourceExists, ds.Name)
		}

		return nil, err
	}

	log.Info().Str("data_source", ds.Name).Str("type", string(ds.DatabaseType)).Msg("data source added")

	if err = s.queue.Enqueue(&queue.SyncTablesTask{DataSource: ds.Name}); err != nil {
		log.Error().Err(err).Str("data_source", ds.Name).Msg("failed to enqueue table sync")
	}

	return ds, nil
}

// CompleteSetup marks the wizard as finished. There is no way back.
func (s *Service) CompleteSetup(ctx context.Context) error {
	settings, err := s.settings(ctx)
	if err != nil {
		return err
	}

	settings.SetupComplete = true

	return settings.Save(s.db.WithContext(ctx))
}

// settings loads the singleton; a deployment without one has default settings.
func (s *Service) settings(ctx context.Context) (*insights.Settings, error) {
	var settings insights.Settings

	err := settings.Load(s.db.WithContext(ctx))
	if errors.Is(err, setting.ErrSettingNotFound) {
		return &insights.Settings{}, nil
	}

	if err != nil {
		return nil, err
	}

	return &settings, nil
}
