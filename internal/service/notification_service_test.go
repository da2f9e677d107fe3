package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/comtooin/support-center/internal/config"
	"github.com/comtooin/support-center/internal/domain"
	"github.com/comtooin/support-center/internal/events"
)

type sentMail struct {
	To      string
	Subject string
	Body    string
}

type fakeMailSender struct {
	mu      sync.Mutex
	sent    []sentMail
	sendErr error
}

func (f *fakeMailSender) Send(to, subject, htmlBody string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, sentMail{To: to, Subject: subject, Body: htmlBody})
	return nil
}

func (f *fakeMailSender) messages() []sentMail {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sentMail{}, f.sent...)
}

func submittedEvent(email string) events.Event {
	return events.Event{
		Type: events.EventRequestSubmitted,
		Request: events.RequestSnapshot{
			ID:           12,
			CustomerName: "acme",
			UserName:     "kim",
			Email:        email,
			Content:      "scanner jammed",
			Status:       domain.RequestStatusOpen,
		},
	}
}

func TestSubmittedNotifiesSubmitterAndAdmin(t *testing.T) {
	sender := &fakeMailSender{}
	svc := NewNotificationService(sender, config.MailConfig{AdminNotify: "support@comtooin.example"}, zap.NewNop())

	require.NoError(t, svc.handleSubmitted(context.Background(), submittedEvent("kim@acme.example")))

	sent := sender.messages()
	require.Len(t, sent, 2)
	assert.Equal(t, "kim@acme.example", sent[0].To)
	assert.Contains(t, sent[0].Subject, "#12")
	assert.Contains(t, sent[0].Body, "scanner jammed")
	assert.Equal(t, "support@comtooin.example", sent[1].To)
	assert.Contains(t, sent[1].Subject, "acme")
}

func TestSubmittedWithoutEmailOnlyNotifiesAdmin(t *testing.T) {
	sender := &fakeMailSender{}
	svc := NewNotificationService(sender, config.MailConfig{AdminNotify: "support@comtooin.example"}, zap.NewNop())

	require.NoError(t, svc.handleSubmitted(context.Background(), submittedEvent("")))

	sent := sender.messages()
	require.Len(t, sent, 1)
	assert.Equal(t, "support@comtooin.example", sent[0].To)
}

func TestStatusChangedRequiresEmail(t *testing.T) {
	sender := &fakeMailSender{}
	svc := NewNotificationService(sender, config.MailConfig{}, zap.NewNop())

	event := submittedEvent("")
	event.Type = events.EventRequestStatusChanged
	event.NewStatus = domain.RequestStatusResolved
	require.NoError(t, svc.handleStatusChanged(context.Background(), event))
	assert.Empty(t, sender.messages())

	event = submittedEvent("kim@acme.example")
	event.Type = events.EventRequestStatusChanged
	event.NewStatus = domain.RequestStatusResolved
	require.NoError(t, svc.handleStatusChanged(context.Background(), event))

	sent := sender.messages()
	require.Len(t, sent, 1)
	assert.Contains(t, sent[0].Subject, "RESOLVED")
}

func TestDeliveryErrorIsSwallowed(t *testing.T) {
	sender := &fakeMailSender{sendErr: errors.New("smtp unreachable")}
	svc := NewNotificationService(sender, config.MailConfig{}, zap.NewNop())

	assert.NoError(t, svc.handleSubmitted(context.Background(), submittedEvent("kim@acme.example")))
}

func TestNilSenderIsNoOp(t *testing.T) {
	svc := NewNotificationService(nil, config.MailConfig{AdminNotify: "support@comtooin.example"}, zap.NewNop())

	assert.NoError(t, svc.handleSubmitted(context.Background(), submittedEvent("kim@acme.example")))
}

func TestRegisterHandlersSubscribesBothEvents(t *testing.T) {
	sender := &fakeMailSender{}
	svc := NewNotificationService(sender, config.MailConfig{}, zap.NewNop())

	dispatcher := events.NewAsyncDispatcher(zap.NewNop())
	svc.RegisterHandlers(dispatcher)

	dispatcher.Publish(submittedEvent("kim@acme.example"))
	changed := submittedEvent("kim@acme.example")
	changed.Type = events.EventRequestStatusChanged
	changed.NewStatus = domain.RequestStatusInProgress
	dispatcher.Publish(changed)
	dispatcher.Wait()

	assert.Len(t, sender.messages(), 2)
}
