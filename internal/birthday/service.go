package birthday

import (
	"errors"
	"strings"

	"birthdaybot-api/internal/common"
	"birthdaybot-api/internal/events"

	"go.uber.org/zap"
)

// BirthdayService defines the interface for birthday operations. The
// same operations are reachable over the event bus: the service
// subscribes to the request topics and answers on the response topics.
type BirthdayService interface {
	// AddBirthday parses dateText, stores the record and reports the
	// parsed date plus whether a new record was created (false means an
	// existing record with the same name was replaced).
	AddBirthday(ownerID, name, dateText string) (Date, bool, error)

	// DeleteBirthday removes the named record, case-insensitively.
	// The bool reports whether anything matched.
	DeleteBirthday(ownerID, name string) (bool, error)

	// ListBirthdays returns the owner's records ordered by month, day,
	// then name.
	ListBirthdays(ownerID string) ([]RecordSummary, error)
}

// birthdayService implements the BirthdayService interface
type birthdayService struct {
	eventBus   events.EventBus
	logger     *zap.Logger
	repository BirthdayRepository
	clock      common.Clock
}

// NewBirthdayService creates a new instance of BirthdayService
func NewBirthdayService(eventBus events.EventBus, logger *zap.Logger, repository BirthdayRepository, clock common.Clock) BirthdayService {
	if repository == nil {
		logger.Warn("BirthdayService initialized with nil repository - operations will fail")
	}
	if clock == nil {
		clock = common.NewRealClock()
	}

	service := &birthdayService{
		eventBus:   eventBus,
		logger:     logger,
		repository: repository,
		clock:      clock,
	}

	// Subscribe to relevant events
	service.setupEventSubscriptions()

	return service
}

// setupEventSubscriptions sets up event subscriptions for the birthday service
func (s *birthdayService) setupEventSubscriptions() {
	if err := s.eventBus.Subscribe(events.TopicBirthdayUpsertRequested, s.handleUpsertRequested); err != nil {
		s.logger.Error("Failed to subscribe to BirthdayUpsertRequested events", zap.Error(err))
	}

	if err := s.eventBus.Subscribe(events.TopicBirthdayDeleteRequested, s.handleDeleteRequested); err != nil {
		s.logger.Error("Failed to subscribe to BirthdayDeleteRequested events", zap.Error(err))
	}

	if err := s.eventBus.Subscribe(events.TopicBirthdayListRequested, s.handleListRequested); err != nil {
		s.logger.Error("Failed to subscribe to BirthdayListRequested events", zap.Error(err))
	}
}

// AddBirthday parses and stores a birthday for the owner
func (s *birthdayService) AddBirthday(ownerID, name, dateText string) (Date, bool, error) {
	s.logger.Info("Adding birthday",
		zap.String("ownerID", ownerID),
		zap.String("name", name))

	repo, err := s.repo()
	if err != nil {
		return Date{}, false, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return Date{}, false, NewRecordValidationError("name", name, "name cannot be empty")
	}

	date, err := ParseDate(dateText)
	if err != nil {
		s.logger.Debug("Date parsing failed",
			zap.String("input", dateText),
			zap.Error(err))
		return Date{}, false, err
	}

	// The existence check and the write share a transaction so the
	// created flag cannot be invalidated by a concurrent upsert.
	created := false
	err = repo.WithTransaction(func(tx BirthdayRepository) error {
		existing, err := tx.RecordsFor(ownerID)
		if err != nil {
			return err
		}

		created = true
		nameLower := NormalizeName(name)
		for _, rec := range existing {
			if rec.NameLower == nameLower {
				created = false
				break
			}
		}

		return tx.Upsert(ownerID, name, date.Day, date.Month, date.Year)
	})
	if err != nil {
		s.logger.Error("Failed to save birthday", zap.Error(err))
		return Date{}, false, err
	}

	s.logger.Info("Birthday saved",
		zap.String("ownerID", ownerID),
		zap.String("name", name),
		zap.String("date", date.String()),
		zap.Bool("created", created))
	return date, created, nil
}

// DeleteBirthday removes a stored birthday by name
func (s *birthdayService) DeleteBirthday(ownerID, name string) (bool, error) {
	s.logger.Info("Deleting birthday",
		zap.String("ownerID", ownerID),
		zap.String("name", name))

	repo, err := s.repo()
	if err != nil {
		return false, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return false, NewRecordValidationError("name", name, "name cannot be empty")
	}

	removed, err := repo.Delete(ownerID, name)
	if err != nil {
		s.logger.Error("Failed to delete birthday", zap.Error(err))
		return false, err
	}

	return removed > 0, nil
}

// ListBirthdays returns all stored birthdays for the owner
func (s *birthdayService) ListBirthdays(ownerID string) ([]RecordSummary, error) {
	s.logger.Debug("Listing birthdays", zap.String("ownerID", ownerID))

	repo, err := s.repo()
	if err != nil {
		return nil, err
	}

	return repo.List(ownerID)
}

// handleUpsertRequested handles BirthdayUpsertRequested events from the chatbot
func (s *birthdayService) handleUpsertRequested(event events.BirthdayUpsertRequested) {
	s.logger.Debug("Handling BirthdayUpsertRequested event",
		zap.String("correlationID", event.CorrelationID),
		zap.String("chatID", event.ChatID),
		zap.String("name", event.Name))

	response := events.BirthdayUpsertResponse{
		Event:  events.NewEvent(),
		UserID: event.UserID,
		ChatID: event.ChatID,
		Name:   strings.TrimSpace(event.Name),
	}

	date, created, err := s.AddBirthday(event.ChatID, event.Name, event.DateText)
	if err != nil {
		response.Success = false
		response.ErrorCode = errorCode(err)
	} else {
		response.Success = true
		response.Created = created
		response.Day = date.Day
		response.Month = date.Month
		response.Year = date.Year
	}

	s.publishResponse(events.TopicBirthdayUpsertResponse, response, event.CorrelationID)
}

// handleDeleteRequested handles BirthdayDeleteRequested events from the chatbot
func (s *birthdayService) handleDeleteRequested(event events.BirthdayDeleteRequested) {
	s.logger.Debug("Handling BirthdayDeleteRequested event",
		zap.String("correlationID", event.CorrelationID),
		zap.String("chatID", event.ChatID),
		zap.String("name", event.Name))

	response := events.BirthdayDeleteResponse{
		Event:  events.NewEvent(),
		UserID: event.UserID,
		ChatID: event.ChatID,
		Name:   strings.TrimSpace(event.Name),
	}

	deleted, err := s.DeleteBirthday(event.ChatID, event.Name)
	if err != nil {
		response.Success = false
		response.ErrorCode = errorCode(err)
	} else {
		response.Success = true
		response.Deleted = deleted
	}

	s.publishResponse(events.TopicBirthdayDeleteResponse, response, event.CorrelationID)
}

// handleListRequested handles BirthdayListRequested events from the chatbot
func (s *birthdayService) handleListRequested(event events.BirthdayListRequested) {
	s.logger.Debug("Handling BirthdayListRequested event",
		zap.String("correlationID", event.CorrelationID),
		zap.String("chatID", event.ChatID))

	response := events.BirthdayListResponse{
		Event:  events.NewEvent(),
		UserID: event.UserID,
		ChatID: event.ChatID,
	}

	summaries, err := s.ListBirthdays(event.ChatID)
	if err != nil {
		response.Success = false
		response.ErrorCode = errorCode(err)
		s.publishResponse(events.TopicBirthdayListResponse, response, event.CorrelationID)
		return
	}

	today := s.clock.Now()
	birthdays := make([]events.BirthdaySummary, 0, len(summaries))
	for _, summary := range summaries {
		occurrence := NextOccurrence(summary.Day, summary.Month, today)
		birthdays = append(birthdays, events.BirthdaySummary{
			Name:      summary.Name,
			Day:       summary.Day,
			Month:     summary.Month,
			Year:      summary.Year,
			DaysUntil: DaysUntil(occurrence, today),
		})
	}

	response.Success = true
	response.Birthdays = birthdays
	response.TotalCount = len(birthdays)

	s.publishResponse(events.TopicBirthdayListResponse, response, event.CorrelationID)
}

// publishResponse sends a response event, logging when the bus refuses
// it. The requesting side treats a failed request publish as an error
// already, so there is nothing more to do here.
func (s *birthdayService) publishResponse(topic string, response interface{}, correlationID string) {
	if err := s.eventBus.Publish(topic, response); err != nil {
		s.logger.Error("Failed to publish response event",
			zap.String("topic", topic),
			zap.String("correlationID", correlationID),
			zap.Error(err))
	}
}

// repo guards against a service wired without storage.
func (s *birthdayService) repo() (BirthdayRepository, error) {
	if s.repository == nil {
		return nil, RepositoryError{Operation: "repository access", Details: "no repository configured"}
	}
	return s.repository, nil
}

// errorCode maps a failure to the code carried in response events.
func errorCode(err error) string {
	var bdayErr BirthdayError
	if errors.As(err, &bdayErr) {
		return bdayErr.Code()
	}
	return ErrCodeInternal
}
