package controller

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/internal/dto"
	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/internal/pkg/serverutils"
	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/internal/service"
	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/pkg/apperror"
	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/pkg/intake"
)

type fakeCases struct {
	err      error
	listReq  *dto.ListCasesRequest
	patchReq *dto.PatchCaseRequest
	deleted  uuid.UUID
}

func (f *fakeCases) caseResponse(id uuid.UUID) (*dto.CaseResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &dto.CaseResponse{Id: id, ReferenceNumber: "LDA-2026-000001", Status: "in_progress"}, nil
}

func (f *fakeCases) CreateCase(context.Context, service.CreateCaseRequest) (*intake.CaseSummary, error) {
	return nil, f.err
}

func (f *fakeCases) CreateDraft(_ context.Context, _ intake.Principal, _ *dto.CreateDraftCaseRequest) (*dto.CaseResponse, error) {
	return f.caseResponse(uuid.New())
}

func (f *fakeCases) List(_ context.Context, _ intake.Principal, req *dto.ListCasesRequest) (*dto.CaseListResponse, error) {
	f.listReq = req
	if f.err != nil {
		return nil, f.err
	}
	return &dto.CaseListResponse{Items: []dto.CaseResponse{}, Total: 0}, nil
}

func (f *fakeCases) Show(_ context.Context, _ intake.Principal, id uuid.UUID) (*dto.CaseResponse, error) {
	return f.caseResponse(id)
}

func (f *fakeCases) Patch(_ context.Context, _ intake.Principal, id uuid.UUID, req *dto.PatchCaseRequest) (*dto.CaseResponse, error) {
	f.patchReq = req
	return f.caseResponse(id)
}

func (f *fakeCases) ConfirmEntity(_ context.Context, _ intake.Principal, id uuid.UUID, _ *dto.ConfirmEntityRequest) (*dto.CaseResponse, error) {
	return f.caseResponse(id)
}

func (f *fakeCases) Delete(_ context.Context, _ intake.Principal, id uuid.UUID) error {
	f.deleted = id
	return f.err
}

func (f *fakeCases) ResumeReferences(context.Context) error {
	return nil
}

func (f *fakeCases) LatestDocument(_ context.Context, _ intake.Principal, id uuid.UUID) (*dto.DocumentResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &dto.DocumentResponse{
		Id:          uuid.New(),
		CaseId:      id,
		Title:       "Police Complaint",
		FileName:    "LDA-2026-000001.txt",
		ContentType: "text/plain; charset=utf-8",
		Content:     "To the Station House Officer",
	}, nil
}

func TestCaseControllerRoutes(t *testing.T) {
	id := uuid.New()
	tests := []struct {
		name     string
		method   string
		url      string
		body     string
		err      error
		wantCode int
		wantKind apperror.Kind
	}{
		{name: "list", method: http.MethodGet, url: "/api/case/v1?limit=5&offset=10", wantCode: 200},
		{name: "list over limit", method: http.MethodGet, url: "/api/case/v1?limit=500", wantCode: 422, wantKind: apperror.KindValidationFailed},
		{name: "create draft", method: http.MethodPost, url: "/api/case/v1", body: `{"issue_type":"theft"}`, wantCode: 201},
		{name: "create draft without type", method: http.MethodPost, url: "/api/case/v1", body: `{"entities":{}}`, wantCode: 422, wantKind: apperror.KindValidationFailed},
		{name: "show", method: http.MethodGet, url: "/api/case/v1/" + id.String(), wantCode: 200},
		{name: "show bad id", method: http.MethodGet, url: "/api/case/v1/not-a-uuid", wantCode: 422, wantKind: apperror.KindValidationFailed},
		{name: "show missing", method: http.MethodGet, url: "/api/case/v1/" + id.String(), err: apperror.NotFound("case %s not found", id), wantCode: 404, wantKind: apperror.KindNotFound},
		{name: "patch", method: http.MethodPatch, url: "/api/case/v1/" + id.String(), body: `{"operations":[{"op":"replace","path":"/location","value":"Chennai"}]}`, wantCode: 200},
		{name: "patch unknown op", method: http.MethodPatch, url: "/api/case/v1/" + id.String(), body: `{"operations":[{"op":"move","path":"/location"}]}`, wantCode: 422, wantKind: apperror.KindValidationFailed},
		{name: "patch completed case", method: http.MethodPatch, url: "/api/case/v1/" + id.String(), body: `{"operations":[{"op":"remove","path":"/location"}]}`, err: apperror.InvalidState("case is completed"), wantCode: 409, wantKind: apperror.KindInvalidState},
		{name: "confirm entity", method: http.MethodPost, url: "/api/case/v1/" + id.String() + "/confirm-entity", body: `{"field":"location"}`, wantCode: 200},
		{name: "delete", method: http.MethodDelete, url: "/api/case/v1/" + id.String(), wantCode: 200},
		{name: "document", method: http.MethodGet, url: "/api/case/v1/" + id.String() + "/document", wantCode: 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeCases{err: tt.err}
			app := newTestApp(NewCaseController(svc, serverutils.NewJwtMiddleware(testSecret)).RegisterRoutes)

			code, env := do(t, app, jsonRequest(t, tt.method, tt.url, tt.body))

			assert.Equal(t, tt.wantCode, code)
			if tt.wantKind != "" {
				assert.Equal(t, tt.wantKind, env.Error.Kind)
				return
			}
			assert.True(t, env.Success)
		})
	}
}

func TestCaseControllerBindsRequests(t *testing.T) {
	id := uuid.New()
	svc := &fakeCases{}
	app := newTestApp(NewCaseController(svc, serverutils.NewJwtMiddleware(testSecret)).RegisterRoutes)

	_, _ = do(t, app, jsonRequest(t, http.MethodGet, "/api/case/v1?limit=5&offset=10", ""))
	require.NotNil(t, svc.listReq)
	assert.Equal(t, 5, svc.listReq.Limit)
	assert.Equal(t, 10, svc.listReq.Offset)

	_, _ = do(t, app, jsonRequest(t, http.MethodPatch, "/api/case/v1/"+id.String(),
		`{"operations":[{"op":"test","path":"/location/value","value":"Chennai"},{"op":"replace","path":"/location/value","value":"Madurai"}]}`))
	require.NotNil(t, svc.patchReq)
	require.Len(t, svc.patchReq.Operations, 2)
	assert.Equal(t, "Madurai", svc.patchReq.Operations[1].Value)

	_, env := do(t, app, jsonRequest(t, http.MethodDelete, "/api/case/v1/"+id.String(), ""))
	assert.Equal(t, id, svc.deleted)
	assert.Equal(t, "Success delete case", env.Message)
}

func TestCaseControllerDownload(t *testing.T) {
	id := uuid.New()
	app := newTestApp(NewCaseController(&fakeCases{}, serverutils.NewJwtMiddleware(testSecret)).RegisterRoutes)

	resp, err := app.Test(jsonRequest(t, http.MethodGet, "/api/case/v1/"+id.String()+"/document/download", ""), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "text/plain; charset=utf-8", resp.Header.Get("Content-Type"))
	assert.Equal(t, `attachment; filename="LDA-2026-000001.txt"`, resp.Header.Get("Content-Disposition"))
	assert.Equal(t, "To the Station House Officer", string(body))
}

func TestCaseControllerShowPayload(t *testing.T) {
	id := uuid.New()
	app := newTestApp(NewCaseController(&fakeCases{}, serverutils.NewJwtMiddleware(testSecret)).RegisterRoutes)

	_, env := do(t, app, jsonRequest(t, http.MethodGet, "/api/case/v1/"+id.String(), ""))

	var res dto.CaseResponse
	require.NoError(t, json.Unmarshal(env.Data, &res))
	assert.Equal(t, id, res.Id)
	assert.Equal(t, "LDA-2026-000001", res.ReferenceNumber)
}
