package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thegioirubik/lubestation-service/models"
	"github.com/thegioirubik/lubestation-service/pkg/config"
)

func sampleOrder() models.OrderPayload {
	return models.OrderPayload{
		FullName: "Lê Văn C",
		Email:    "c@example.com",
		Phone:    "0901234567",
		City:     "Hồ Chí Minh",
		Address:  "12 Nguyễn Huệ",
		Notes:    "<b>giao buổi sáng</b>",
		Items: []models.OrderItem{
			{ProductName: "Lubicle Silk", Size: "3cc", Quantity: 2, Price: 95000},
			{ProductName: "DNM-37", Size: "10cc", Quantity: 1, Price: 180000},
		},
		Subtotal: 370000,
		Discount: 37000,
		Shipping: 35000,
		Total:    368000,
	}
}

func testNotifier(m Mailer) *OrderNotifier {
	n := NewOrderNotifier(m, config.MailConfig{
		From:       "LubeStation <onboarding@resend.dev>",
		AdminEmail: "atg.toan@gmail.com",
		Timeout:    time.Second,
	}, nil)
	n.now = func() time.Time { return time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC) }
	return n
}

func TestNotify_SendsCustomerThenAdmin(t *testing.T) {
	m := &Mock{}
	require.NoError(t, testNotifier(m).Notify(context.Background(), sampleOrder(), "ORD-42"))

	require.Len(t, m.Sent, 2)
	customer, admin := m.Sent[0], m.Sent[1]

	assert.Equal(t, []string{"c@example.com"}, customer.To)
	assert.Equal(t, "✓ Xác nhận đơn hàng #ORD-42 - LubeStation", customer.Subject)
	assert.Equal(t, "LubeStation <onboarding@resend.dev>", customer.From)
	assert.Contains(t, customer.HTMLBody, "Xin chào <strong>Lê Văn C</strong>")
	assert.Contains(t, customer.HTMLBody, "190.000 ₫")
	assert.Contains(t, customer.HTMLBody, "-37.000 ₫")
	assert.Contains(t, customer.HTMLBody, "© 2025 LubeStation")
	assert.Contains(t, customer.HTMLBody, "&lt;b&gt;giao buổi sáng&lt;/b&gt;")

	assert.Equal(t, []string{"atg.toan@gmail.com"}, admin.To)
	assert.Equal(t, "🔔 Đơn hàng mới #ORD-42 - Lê Văn C", admin.Subject)
	assert.Contains(t, admin.HTMLBody, "Lubicle Silk (3cc) x2 = 190.000 ₫\nDNM-37 (10cc) x1 = 180.000 ₫")
	assert.Contains(t, admin.HTMLBody, "TỔNG: 368.000 ₫")
	assert.Equal(t, "ORD-42", admin.Tags["order_id"])
	assert.Equal(t, "c@example.com", admin.ReplyTo)
	assert.Empty(t, customer.ReplyTo)
}

func TestNotify_NoNotesSectionWhenEmpty(t *testing.T) {
	m := &Mock{}
	order := sampleOrder()
	order.Notes = ""
	require.NoError(t, testNotifier(m).Notify(context.Background(), order, "ORD-1"))

	for _, e := range m.Sent {
		assert.NotContains(t, e.HTMLBody, "Ghi chú")
	}
}

func TestNotify_AttemptsBothAndJoinsErrors(t *testing.T) {
	m := &Mock{Err: errors.New("rate limited")}

	err := testNotifier(m).Notify(context.Background(), sampleOrder(), "ORD-7")

	require.Error(t, err)
	assert.Len(t, m.Sent, 2)
	assert.ErrorContains(t, err, "customer email: rate limited")
	assert.ErrorContains(t, err, "admin email: rate limited")
}

func TestFromConfig_DisabledWithoutKey(t *testing.T) {
	n := FromConfig(config.MailConfig{}, nil)
	assert.Nil(t, n)
	assert.NoError(t, n.Notify(context.Background(), sampleOrder(), "ORD-1"))
}

func TestResendRequest(t *testing.T) {
	req := resendRequest(Email{
		From:     "LubeStation <onboarding@resend.dev>",
		To:       []string{"c@example.com"},
		Subject:  "hi",
		ReplyTo:  "a@example.com",
		HTMLBody: "<p>hi</p>",
		Tags:     map[string]string{"order_id": "ORD-1"},
	})
	assert.Equal(t, "a@example.com", req.ReplyTo)
	assert.Equal(t, "<p>hi</p>", req.Html)
	assert.Equal(t, []string{"c@example.com"}, req.To)
	require.Len(t, req.Tags, 1)
	assert.Equal(t, "order_id", req.Tags[0].Name)
}
