package events

import (
	"encoding/json"
	"testing"

	"service-catalog/internal/domain/category"
	"service-catalog/internal/domain/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryCreatedRoundTrip(t *testing.T) {
	desc := "Cuts and styling"
	c := category.Category{ID: uuid.New(), TenantID: uuid.New(), Name: "Haircuts", Description: &desc}
	ev := NewCategoryCreated(c)

	data, err := Encode(ev)
	require.NoError(t, err)

	env, err := DecodeEnvelope(data)
	require.NoError(t, err)
	assert.Equal(t, TypeCategoryCreated, env.EventType)
	assert.Equal(t, ev.EventID.String(), env.EventID)

	got, err := Decode[CategoryCreatedEvent](env)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, got.EventID)
	assert.Equal(t, c.ID, got.CategoryID)
	assert.Equal(t, c.TenantID, got.TenantID)
	assert.Equal(t, c.Name, got.Name)
	require.NotNil(t, got.Description)
	assert.Equal(t, desc, *got.Description)
}

func TestEncodeUsesCamelCaseAndOmitsNulls(t *testing.T) {
	s := service.Service{
		ID:              uuid.New(),
		TenantID:        uuid.New(),
		Name:            "Beard trim",
		Price:           decimal.RequireFromString("25.50"),
		DurationMinutes: 20,
		IsActive:        true,
	}
	data, err := Encode(NewServiceCreated(s))
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(data, &fields))

	assert.Equal(t, "ServiceCreatedEvent", fields["eventType"])
	assert.Equal(t, s.ID.String(), fields["serviceId"])
	assert.Equal(t, 25.5, fields["price"])
	assert.Equal(t, float64(20), fields["durationMinutes"])
	assert.Equal(t, true, fields["isActive"])
	assert.NotContains(t, fields, "description")
	assert.NotContains(t, fields, "categoryId")
}

func TestEncodeRejectsEventWithoutType(t *testing.T) {
	_, err := Encode(CategoryDeletedEvent{Base: Base{EventID: uuid.New()}})
	assert.ErrorIs(t, err, ErrMissingEventType)

	_, err = Encode(CategoryDeletedEvent{Base: Base{EventType: TypeCategoryDeleted}})
	assert.ErrorIs(t, err, ErrMalformedEvent)
}

func TestDecodeEnvelope(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    string
		wantErr error
	}{
		{"typed", `{"eventId":"1","eventType":"TenantCreatedEvent"}`, TypeTenantCreated, nil},
		{"extra fields", `{"eventType":"TenantUpdatedEvent","schemaVersion":3,"nested":{"a":1}}`, TypeTenantUpdated, nil},
		{"missing", `{"eventId":"1","tenantId":"x"}`, "", ErrMissingEventType},
		{"empty", `{"eventType":""}`, "", ErrMissingEventType},
		{"blank", `{"eventType":"  "}`, "", ErrMissingEventType},
		{"null", `{"eventType":null}`, "", ErrMissingEventType},
		{"not a string", `{"eventType":42}`, "", ErrMalformedEvent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, err := DecodeEnvelope([]byte(tt.body))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, env.EventType)
		})
	}
}

func TestDecodeTenantEvent(t *testing.T) {
	tenantID := uuid.New()
	body := `{
		"eventId": "` + uuid.NewString() + `",
		"eventType": "TenantCreatedEvent",
		"tenantId": "` + tenantID.String() + `",
		"ownerId": "` + uuid.NewString() + `",
		"vatNumber": "DE123",
		"businessName": "Fade Masters",
		"address": "1 Main St",
		"unknown": true
	}`
	env, err := DecodeEnvelope([]byte(body))
	require.NoError(t, err)

	ev, err := Decode[TenantCreatedEvent](env)
	require.NoError(t, err)
	assert.Equal(t, tenantID, ev.TenantID)
	assert.Equal(t, "Fade Masters", ev.BusinessName)
	require.NotNil(t, ev.Address)
	assert.Equal(t, "1 Main St", *ev.Address)
	assert.Nil(t, ev.BusinessEmail)

	_, err = Decode[TenantUpdatedEvent](env)
	assert.ErrorIs(t, err, ErrMalformedEvent)
}

func TestDecodeRejectsMismatchedType(t *testing.T) {
	body, err := Encode(NewCategoryCreated(category.Category{ID: uuid.New(), TenantID: uuid.New(), Name: "Haircuts"}))
	require.NoError(t, err)
	env, err := DecodeEnvelope(body)
	require.NoError(t, err)

	_, err = Decode[CategoryDeletedEvent](env)
	assert.ErrorIs(t, err, ErrMalformedEvent)
	_, err = Decode[TenantCreatedEvent](env)
	assert.ErrorIs(t, err, ErrMalformedEvent)

	ev, err := Decode[CategoryCreatedEvent](env)
	require.NoError(t, err)
	assert.Equal(t, TypeCategoryCreated, ev.Type())
}

func TestEncodeRejectsTypeOfAnotherEvent(t *testing.T) {
	ev := NewServiceDeleted(service.Service{ID: uuid.New(), TenantID: uuid.New()})
	ev.EventType = TypeServiceCreated

	_, err := Encode(ev)
	assert.ErrorIs(t, err, ErrMalformedEvent)
}

func TestDecodeMalformedPayload(t *testing.T) {
	env, err := DecodeEnvelope([]byte(`{"eventType":"TenantCreatedEvent","tenantId":"not-a-uuid"}`))
	require.NoError(t, err)

	_, err = Decode[TenantCreatedEvent](env)
	assert.ErrorIs(t, err, ErrMalformedEvent)
}

func TestEntityID(t *testing.T) {
	c := category.Category{ID: uuid.New(), TenantID: uuid.New()}
	s := service.Service{ID: uuid.New(), TenantID: uuid.New()}

	assert.Equal(t, c.ID.String(), EntityID(NewCategoryEdited(c)))
	assert.Equal(t, c.ID.String(), EntityID(NewCategoryDeleted(c)))
	assert.Equal(t, s.ID.String(), EntityID(NewServiceDeleted(s)))
	assert.Equal(t, "N/A", EntityID(nil))
}
