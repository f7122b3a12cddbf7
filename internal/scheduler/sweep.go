package scheduler

import (
	"time"

	"birthdaybot-api/internal/birthday"
	"birthdaybot-api/internal/events"

	"go.uber.org/zap"
)

// sweep walks every owner's records once and delivers a reminder for
// each record whose next occurrence falls inside the lookahead window
// and has not been notified for that occurrence year yet. Failures are
// isolated: a failing owner is skipped, a failed delivery leaves the
// record unmarked so the next daily run retries it while the window
// holds.
func (s *reminderScheduler) sweep() {
	startedAt := time.Now()
	today := s.clock.Now().In(s.location)

	s.logger.Debug("Starting reminder sweep",
		zap.Time("today", today),
		zap.Int("lookahead_days", s.config.LookaheadDays))

	owners, err := s.repo.AllOwners()
	if err != nil {
		s.metrics.RecordSweepError(err)
		s.logger.Error("Reminder sweep could not list owners", zap.Error(err))
		return
	}

	evaluated := 0
	sent := 0
	failures := 0
	skipped := 0

	for _, owner := range owners {
		records, err := s.repo.RecordsFor(owner)
		if err != nil {
			s.metrics.RecordSweepError(NewSweepError(owner, "load_records", err))
			s.logger.Error("Reminder sweep could not load records, skipping owner",
				zap.String("owner_id", owner),
				zap.Error(err))
			continue
		}

		for _, record := range records {
			evaluated++

			occurrence := record.NextOccurrence(today)
			daysLeft := birthday.DaysUntil(occurrence, today)
			if daysLeft > s.config.LookaheadDays {
				continue
			}
			if record.NotifiedFor(occurrence.Year()) {
				skipped++
				continue
			}

			due := birthday.DueReminder{
				RecordID:   record.ID,
				ChatID:     record.OwnerID,
				Name:       record.Name,
				Occurrence: occurrence,
				DaysLeft:   daysLeft,
			}

			if err := s.messenger.SendReminder(due); err != nil {
				failures++
				s.logger.Error("Reminder delivery failed, leaving record unmarked for retry",
					zap.String("record_id", string(record.ID)),
					zap.String("owner_id", owner),
					zap.Int("days_left", daysLeft),
					zap.Error(err))
				continue
			}
			sent++

			if err := s.repo.MarkNotified(string(record.ID), occurrence.Year()); err != nil {
				// Delivered but unmarked: tomorrow's run may repeat this
				// reminder. Loud log so a recurring mark failure is visible.
				s.metrics.RecordSweepError(NewSweepError(owner, "mark_notified", err))
				s.logger.Error("Reminder delivered but record could not be marked notified",
					zap.String("record_id", string(record.ID)),
					zap.String("owner_id", owner),
					zap.Int("occurrence_year", occurrence.Year()),
					zap.Error(err))
				continue
			}

			s.publishReminderSent(due, occurrence.Year())
		}
	}

	duration := time.Since(startedAt)
	s.metrics.RecordSweepCompleted(evaluated, sent, failures, skipped, duration)

	s.logger.Info("Reminder sweep completed",
		zap.Int("owners", len(owners)),
		zap.Int("records_evaluated", evaluated),
		zap.Int("reminders_sent", sent),
		zap.Int("send_failures", failures),
		zap.Int("already_notified", skipped),
		zap.Duration("duration", duration))
}

// publishReminderSent emits the observability event for a delivered and
// marked reminder. Publish failures are logged only; the record state
// is already correct.
func (s *reminderScheduler) publishReminderSent(due birthday.DueReminder, occurrenceYear int) {
	event := events.ReminderSent{
		Event:          events.NewEvent(),
		RecordID:       string(due.RecordID),
		ChatID:         string(due.ChatID),
		Name:           due.Name,
		Day:            due.Occurrence.Day(),
		Month:          int(due.Occurrence.Month()),
		DaysUntil:      due.DaysLeft,
		OccurrenceYear: occurrenceYear,
	}

	if err := s.eventBus.Publish(events.TopicReminderSent, event); err != nil {
		s.logger.Warn("Failed to publish reminder sent event",
			zap.String("record_id", event.RecordID),
			zap.Error(err))
	}
}
