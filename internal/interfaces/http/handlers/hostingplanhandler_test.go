package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	orderdto "github.com/fylo-cloud/fylo/internal/application/order/dto"
	"github.com/fylo-cloud/fylo/internal/application/order/usecases"
	"github.com/fylo-cloud/fylo/internal/interfaces/http/handlers/testutil"
	"github.com/fylo-cloud/fylo/internal/shared/errors"
)

type mockSubmitOrderUC struct {
	got    *usecases.SubmitOrderCommand
	result *orderdto.OrderDTO
	err    error
}

func (m *mockSubmitOrderUC) Execute(ctx context.Context, cmd usecases.SubmitOrderCommand) (*orderdto.OrderDTO, error) {
	m.got = &cmd
	return m.result, m.err
}

const validOrderBody = `{
	"config": {"location":"france","operatingSystem":"ubuntu-22.04","cores":4,"ramGb":8,"storageGb":200,"billingPeriod":"monthly"},
	"price": 50,
	"clientName": "Ana",
	"clientEmail": "ana@example.com"
}`

func TestHostingPlanHandler_Create_Success(t *testing.T) {
	uc := &mockSubmitOrderUC{result: &orderdto.OrderDTO{ID: "ord_abc"}}
	handler := NewHostingPlanHandler(uc, testutil.NewMockLogger())

	c, w := testutil.NewTestContext(http.MethodPost, "/api/hosting-plans", validOrderBody)
	c.Request.Header.Set("X-Forwarded-For", " 203.0.113.9 , 10.0.0.1")

	handler.Create(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok":true}`, w.Body.String())

	require.NotNil(t, uc.got)
	assert.Equal(t, "203.0.113.9", uc.got.ClientIP)
	assert.Equal(t, "france", uc.got.Config.Location)
	assert.Equal(t, 4, uc.got.Config.Cores)
	require.NotNil(t, uc.got.Price)
	assert.Equal(t, 50.0, *uc.got.Price)
	assert.Equal(t, "ana@example.com", uc.got.ClientEmail)
}

func TestHostingPlanHandler_Create_IgnoresClientIPInBody(t *testing.T) {
	uc := &mockSubmitOrderUC{result: &orderdto.OrderDTO{}}
	handler := NewHostingPlanHandler(uc, testutil.NewMockLogger())

	body := `{"config":{"location":"miami","operatingSystem":"debian-12","cores":2,"ramGb":4,"storageGb":100,"billingPeriod":"annual"},"price":10,"ClientIP":"1.2.3.4"}`
	c, w := testutil.NewTestContext(http.MethodPost, "/api/hosting-plans", body)
	c.Request.Header.Set("X-Real-IP", "198.51.100.7")

	handler.Create(c)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, uc.got)
	assert.Equal(t, "198.51.100.7", uc.got.ClientIP)
}

func TestHostingPlanHandler_Create_MalformedBody(t *testing.T) {
	uc := &mockSubmitOrderUC{}
	handler := NewHostingPlanHandler(uc, testutil.NewMockLogger())

	c, w := testutil.NewTestContext(http.MethodPost, "/api/hosting-plans", `{"config":`)

	handler.Create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Nil(t, uc.got, "use case must not run")

	var resp testutil.PlainError
	require.NoError(t, testutil.ParseResponse(w, &resp))
	assert.Equal(t, "Faltan datos de configuración o precio para registrar la VPS.", resp.Error)
}

func TestHostingPlanHandler_Create_UseCaseErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantError  string
	}{
		{
			name:       "validation",
			err:        errors.NewValidationError("Faltan datos de configuración o precio para registrar la VPS."),
			wantStatus: http.StatusBadRequest,
			wantError:  "Faltan datos de configuración o precio para registrar la VPS.",
		},
		{
			name:       "store failure",
			err:        errors.NewInternalError("Error al guardar la VPS.", "connection refused"),
			wantStatus: http.StatusInternalServerError,
			wantError:  "Error al guardar la VPS.",
		},
		{
			name:       "storage disabled",
			err:        errors.NewUnavailableError("order storage is not configured"),
			wantStatus: http.StatusServiceUnavailable,
			wantError:  "order storage is not configured",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewHostingPlanHandler(&mockSubmitOrderUC{err: tt.err}, testutil.NewMockLogger())

			c, w := testutil.NewTestContext(http.MethodPost, "/api/hosting-plans", validOrderBody)
			handler.Create(c)

			assert.Equal(t, tt.wantStatus, w.Code)
			var resp testutil.PlainError
			require.NoError(t, testutil.ParseResponse(w, &resp))
			assert.Equal(t, tt.wantError, resp.Error)
			assert.NotContains(t, w.Body.String(), `"ok"`)
		})
	}
}
