package email

import (
	"context"
	"errors"
	"log/slog"
	"net/smtp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmlabs-hris/hris-engine/internal/config"
	"github.com/cmlabs-hris/hris-engine/internal/domain/employee"
	"github.com/cmlabs-hris/hris-engine/internal/domain/interview"
	"github.com/cmlabs-hris/hris-engine/internal/pkg/messaging"
	"github.com/cmlabs-hris/hris-engine/internal/repository/memory"
)

func newTestService(t *testing.T, cfg config.SMTPConfig, send sendFunc) *emailServiceImpl {
	t.Helper()
	svc, err := NewEmailService(cfg, slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	impl := svc.(*emailServiceImpl)
	impl.send = send
	impl.backoff = 0
	return impl
}

func TestSendInterviewReminder_RetriesThenSucceeds(t *testing.T) {
	calls := 0
	var sent []byte
	svc := newTestService(t, config.SMTPConfig{Host: "smtp.example.com", Port: 587, From: "hr@example.com", FromName: "HR"},
		func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
			calls++
			if calls < 2 {
				return errors.New("temporary failure")
			}
			assert.Equal(t, "smtp.example.com:587", addr)
			assert.Equal(t, []string{"cand@example.com"}, to)
			sent = msg
			return nil
		})

	err := svc.SendInterviewReminder(context.Background(), "cand@example.com", InterviewReminder{
		RecipientName:   "Candidate",
		Position:        "Engineer",
		InterviewType:   "video",
		StartsAt:        "Tue, 05 Mar 2024 10:00 UTC",
		DurationMinutes: 60,
		MeetingLink:     "https://meet.example.com/abc",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)

	body := string(sent)
	assert.Contains(t, body, "Subject: Interview reminder: Engineer at Tue, 05 Mar 2024 10:00 UTC")
	assert.Contains(t, body, "Hello Candidate")
	assert.Contains(t, body, "https://meet.example.com/abc")
	assert.NotContains(t, body, "Location")
}

func TestSendInterviewReminder_GivesUp(t *testing.T) {
	calls := 0
	svc := newTestService(t, config.SMTPConfig{Host: "smtp.example.com", From: "hr@example.com"},
		func(string, smtp.Auth, string, []string, []byte) error {
			calls++
			return errors.New("down")
		})

	err := svc.SendInterviewReminder(context.Background(), "x@example.com", InterviewReminder{Position: "QA"})
	require.Error(t, err)
	assert.Equal(t, maxRetries, calls)
}

func TestSendInterviewReminder_SkipsWithoutHost(t *testing.T) {
	svc := newTestService(t, config.SMTPConfig{}, func(string, smtp.Auth, string, []string, []byte) error {
		t.Fatal("send must not be called")
		return nil
	})
	assert.NoError(t, svc.SendInterviewReminder(context.Background(), "x@example.com", InterviewReminder{}))
}

type recordedMail struct {
	to   string
	data InterviewReminder
}

type fakeMailer struct {
	sent []recordedMail
}

func (f *fakeMailer) SendInterviewReminder(_ context.Context, to string, data InterviewReminder) error {
	f.sent = append(f.sent, recordedMail{to: to, data: data})
	return nil
}

func TestReminderMailer(t *testing.T) {
	ctx := context.Background()
	employees := memory.NewEmployeeRepository(memory.NewStore())
	interviewer, err := employees.Create(ctx, employee.Employee{
		EmployeeCode: "EMP-1",
		FullName:     "Iris Interviewer",
		Email:        "iris@example.com",
		CanInterview: true,
		IsActive:     true,
	})
	require.NoError(t, err)

	events := messaging.NewRecorder(8)
	mailer := &fakeMailer{}
	pub := NewReminderMailer(events, mailer, employees, slog.New(slog.DiscardHandler))

	require.NoError(t, pub.Publish(ctx, messaging.EventInterviewScheduled, interview.Interview{}))
	assert.Empty(t, mailer.sent)

	iv := interview.Interview{
		ID:             "iv-1",
		CandidateName:  "Carl Candidate",
		CandidateEmail: "carl@example.com",
		Position:       "Engineer",
		InterviewerID:  interviewer.ID,
		Type:           interview.InterviewTypeVideo,
		Scheduling: interview.Scheduling{
			Date:            time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
			Time:            "10:00",
			DurationMinutes: 60,
			Timezone:        "UTC",
		},
	}
	require.NoError(t, pub.Publish(ctx, messaging.EventInterviewReminder, iv))

	assert.Equal(t, []string{messaging.EventInterviewScheduled, messaging.EventInterviewReminder}, events.Types())
	require.Len(t, mailer.sent, 2)
	assert.Equal(t, "carl@example.com", mailer.sent[0].to)
	assert.Equal(t, "Carl Candidate", mailer.sent[0].data.RecipientName)
	assert.Empty(t, mailer.sent[0].data.CandidateName)
	assert.Equal(t, "iris@example.com", mailer.sent[1].to)
	assert.Equal(t, "Carl Candidate", mailer.sent[1].data.CandidateName)
	assert.True(t, strings.HasPrefix(mailer.sent[1].data.StartsAt, "Tue, 05 Mar 2024 10:00"))
	assert.NoError(t, pub.Close())
}
