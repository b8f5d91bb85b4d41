package whatsapp

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/farmcost/internal/config"
	"github.com/mamadbah2/farmcost/internal/domain/models"
	"github.com/mamadbah2/farmcost/internal/service/commands"
	client "github.com/mamadbah2/farmcost/pkg/clients/whatsapp"
)

type mockClient struct {
	mock.Mock
}

func (m *mockClient) SendTextMessage(ctx context.Context, req client.SendTextMessageRequest) (*client.SendTextMessageResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*client.SendTextMessageResponse)
	return resp, args.Error(1)
}

type mockDispatcher struct {
	mock.Mock
}

func (m *mockDispatcher) HandleCommand(ctx context.Context, cmd models.Command, sender string) (string, error) {
	args := m.Called(ctx, cmd, sender)
	return args.String(0), args.Error(1)
}

var cfg = config.WhatsAppConfig{VerifyToken: "secret", ManagerNumber: "5599"}

func textPayload(from, body string) models.WebhookPayload {
	return models.WebhookPayload{Entry: []models.WebhookEntry{{
		Changes: []models.WebhookChange{{
			Value: models.WebhookValue{Messages: []models.InboundMessage{{
				From: from, ID: "wamid." + from, Type: "text", Text: &models.TextContent{Body: body},
			}}},
		}},
	}}}
}

func TestVerifyWebhookToken(t *testing.T) {
	svc := NewMetaWhatsAppService(cfg, nil, nil, nil)

	challenge, err := svc.VerifyWebhookToken("subscribe", "secret", "42")
	require.NoError(t, err)
	assert.Equal(t, "42", challenge)

	_, err = svc.VerifyWebhookToken("subscribe", "wrong", "42")
	assert.Error(t, err)
	_, err = svc.VerifyWebhookToken("unsubscribe", "secret", "42")
	assert.Error(t, err)
	_, err = svc.VerifyWebhookToken("", "", "")
	assert.Error(t, err)
}

func TestHandleWebhook_RepliesWithReport(t *testing.T) {
	// Given
	c := new(mockClient)
	d := new(mockDispatcher)
	d.On("HandleCommand", mock.Anything, models.ParseCommand("/costs 30"), "5511").Return("Plot costs ...", nil)
	c.On("SendTextMessage", mock.Anything, client.SendTextMessageRequest{To: "5511", Body: "Plot costs ..."}).
		Return(&client.SendTextMessageResponse{}, nil)
	svc := NewMetaWhatsAppService(cfg, c, d, nil)

	// When
	err := svc.HandleWebhook(context.Background(), textPayload("5511", "/costs 30"))

	// Then
	require.NoError(t, err)
	d.AssertExpectations(t)
	c.AssertExpectations(t)
}

func TestHandleWebhook_IgnoresPlainText(t *testing.T) {
	c := new(mockClient)
	d := new(mockDispatcher)
	svc := NewMetaWhatsAppService(cfg, c, d, nil)

	err := svc.HandleWebhook(context.Background(), textPayload("5511", "bom dia"))

	require.NoError(t, err)
	d.AssertNotCalled(t, "HandleCommand", mock.Anything, mock.Anything, mock.Anything)
	c.AssertNotCalled(t, "SendTextMessage", mock.Anything, mock.Anything)
}

func TestHandleWebhook_ErrorReplies(t *testing.T) {
	tests := []struct {
		name       string
		dispatchEr error
		wantPrefix string
	}{
		{"unknown command", commands.ErrUnsupportedCommand, "Unknown command."},
		{"bad arguments", commands.ErrInvalidArguments, "Could not read the command"},
		{"report failure", errors.New("mongo down"), "The report could not be built"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := new(mockClient)
			d := new(mockDispatcher)
			d.On("HandleCommand", mock.Anything, mock.Anything, "5511").Return("", tt.dispatchEr)
			c.On("SendTextMessage", mock.Anything, mock.MatchedBy(func(req client.SendTextMessageRequest) bool {
				return req.To == "5511" && strings.HasPrefix(req.Body, tt.wantPrefix)
			})).Return(&client.SendTextMessageResponse{}, nil)
			svc := NewMetaWhatsAppService(cfg, c, d, nil)

			err := svc.HandleWebhook(context.Background(), textPayload("5511", "/whatever"))

			require.NoError(t, err)
			c.AssertExpectations(t)
		})
	}
}

func TestHandleWebhook_SendFailureIsReturned(t *testing.T) {
	c := new(mockClient)
	d := new(mockDispatcher)
	d.On("HandleCommand", mock.Anything, mock.Anything, "5511").Return(commands.HelpText, nil)
	c.On("SendTextMessage", mock.Anything, mock.Anything).Return(nil, errors.New("timeout"))
	svc := NewMetaWhatsAppService(cfg, c, d, nil)

	err := svc.HandleWebhook(context.Background(), textPayload("5511", "/help"))

	assert.EqualError(t, err, "timeout")
}

func TestSendOutbound_DefaultsToManagerAndSplits(t *testing.T) {
	c := new(mockClient)
	c.On("SendTextMessage", mock.Anything, mock.MatchedBy(func(req client.SendTextMessageRequest) bool {
		return req.To == "5599" && len(req.Body) <= client.MaxTextLength
	})).Return(&client.SendTextMessageResponse{}, nil).Twice()
	svc := NewMetaWhatsAppService(cfg, c, nil, nil)

	long := strings.Repeat("plot line\n", 500)
	err := svc.SendOutbound(context.Background(), models.OutboundMessageRequest{Message: long})

	require.NoError(t, err)
	c.AssertNumberOfCalls(t, "SendTextMessage", 2)
}
