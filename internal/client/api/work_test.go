package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"nirman-fieldworks/internal/client/session"
	"nirman-fieldworks/internal/client/transport"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWorkClient(t *testing.T, handler http.HandlerFunc) (*WorkClient, func()) {
	t.Helper()
	srv := httptest.NewServer(handler)
	return NewWorkClient(transport.New(srv.URL, session.NewMemoryStore())), srv.Close
}

func TestListProposalsReturnsPayloadAsIs(t *testing.T) {
	const payload = `{"success":true,"data":[{"id":1,"nameOfWork":"CC Road"}]}`
	client, done := newWorkClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/work-proposals", r.URL.Path)
		w.Write([]byte(payload))
	})
	defer done()

	raw, err := client.ListProposals(context.Background())
	require.NoError(t, err)
	assert.JSONEq(t, payload, string(raw))
}

func TestGetProposalRequiresID(t *testing.T) {
	client, done := newWorkClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request should be sent for an empty id")
	})
	defer done()

	_, err := client.GetProposal(context.Background(), "")
	require.Error(t, err)
}

func TestUpdateProposalSendsPatch(t *testing.T) {
	var gotMethod, gotPath string
	var gotBody map[string]interface{}
	client, done := newWorkClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte(`{"success":true}`))
	})
	defer done()

	_, err := client.UpdateProposal(context.Background(), "42", map[string]interface{}{
		"currentStatus": "Work In Progress",
	})
	require.NoError(t, err)
	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/work-proposals/42", gotPath)
	assert.Equal(t, "Work In Progress", gotBody["currentStatus"])
}

func TestSubmitProgressMultipartParts(t *testing.T) {
	type part struct {
		filename    string
		contentType string
		value       string
	}
	parts := map[string][]part{}

	client, done := newWorkClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/work-proposals/7/progress", r.URL.Path)
		assert.True(t, strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data"), "content type must be overridden for this call")

		mr, err := r.MultipartReader()
		require.NoError(t, err)
		for {
			p, err := mr.NextPart()
			if err == io.EOF {
				break
			}
			require.NoError(t, err)
			data, _ := io.ReadAll(p)
			parts[p.FormName()] = append(parts[p.FormName()], part{
				filename:    p.FileName(),
				contentType: p.Header.Get("Content-Type"),
				value:       string(data),
			})
		}
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"success":true,"message":"Progress submitted"}`))
	})
	defer done()

	lat, lng := 1.5, 2.5
	_, err := client.SubmitProgress(context.Background(), "7", ProgressSubmission{
		Description: "d",
		Images: []Image{
			{Name: "site1.jpg", MimeType: "image/jpeg", Reader: strings.NewReader("img-one")},
			{Name: "site2.png", MimeType: "image/png", Reader: strings.NewReader("img-two")},
		},
		Latitude:  &lat,
		Longitude: &lng,
	})
	require.NoError(t, err)

	// Two binary image parts, text desc and coordinate parts.
	require.Len(t, parts["images"], 2)
	assert.Equal(t, "site1.jpg", parts["images"][0].filename)
	assert.Equal(t, "image/jpeg", parts["images"][0].contentType)
	assert.Equal(t, "img-one", parts["images"][0].value)
	assert.Equal(t, "image/png", parts["images"][1].contentType)

	require.Len(t, parts["desc"], 1)
	assert.Equal(t, "d", parts["desc"][0].value)
	assert.Equal(t, "1.5", parts["latitude"][0].value)
	assert.Equal(t, "2.5", parts["longitude"][0].value)

	// Omitted fields produce no part at all, not empty strings.
	assert.NotContains(t, parts, "sanctionedAmount")
	assert.NotContains(t, parts, "remainingBalance")
	assert.NotContains(t, parts, "installments")
	assert.NotContains(t, parts, "document")
}

func TestSubmitProgressMoneyAndInstallments(t *testing.T) {
	values := map[string]string{}
	client, done := newWorkClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(16<<20))
		for k, v := range r.MultipartForm.Value {
			values[k] = v[0]
		}
		w.Write([]byte(`{"success":true}`))
	})
	defer done()

	_, err := client.SubmitProgress(context.Background(), "3", ProgressSubmission{
		Description:              "foundation complete",
		SanctionedAmount:         2500000,
		TotalAmountReleasedSoFar: 1000000.50,
		MBStage:                  "Stage II",
		Installments: []Installment{
			{"installmentNo": 1, "amount": 500000},
			{"installmentNo": 2, "amount": 500000.50},
		},
	})
	require.NoError(t, err)

	// Monetary values are coerced to their string representation.
	assert.Equal(t, "2500000", values["sanctionedAmount"])
	assert.Equal(t, "1000000.5", values["totalAmountReleasedSoFar"])
	assert.Equal(t, "Stage II", values["mbStageMeasurementBookStag"])

	// Installments arrive as one JSON-encoded text part.
	var installments []map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(values["installments"]), &installments))
	require.Len(t, installments, 2)
	assert.Equal(t, float64(1), installments[0]["installmentNo"])
}

func TestSubmitProgressDocumentAndDefaults(t *testing.T) {
	type filePart struct{ filename, contentType string }
	files := map[string][]filePart{}

	client, done := newWorkClient(t, func(w http.ResponseWriter, r *http.Request) {
		mr, err := r.MultipartReader()
		require.NoError(t, err)
		for {
			p, err := mr.NextPart()
			if err == io.EOF {
				break
			}
			require.NoError(t, err)
			io.Copy(io.Discard, p)
			if p.FileName() != "" {
				files[p.FormName()] = append(files[p.FormName()], filePart{p.FileName(), p.Header.Get("Content-Type")})
			}
		}
		w.Write([]byte(`{"success":true}`))
	})
	defer done()

	_, err := client.SubmitProgress(context.Background(), "9", ProgressSubmission{
		Images:   []Image{{Reader: strings.NewReader("x")}},
		Document: &Image{Reader: strings.NewReader("pdf-bytes")},
	})
	require.NoError(t, err)

	// Unnamed parts get defaulted names and MIME types.
	require.Len(t, files["images"], 1)
	assert.True(t, strings.HasPrefix(files["images"][0].filename, "progress_image_"))
	assert.Equal(t, "image/jpeg", files["images"][0].contentType)

	require.Len(t, files["document"], 1)
	assert.Equal(t, "document.pdf", files["document"][0].filename)
	assert.Equal(t, "application/pdf", files["document"][0].contentType)
}

func TestSubmitProgressServerMessagePriority(t *testing.T) {
	client, done := newWorkClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"success":false,"message":"Too many images attached"}`))
	})
	defer done()

	_, err := client.SubmitProgress(context.Background(), "7", ProgressSubmission{Description: "d"})
	require.Error(t, err)
	assert.Equal(t, "Too many images attached", err.Error())
}

func TestWorkCallFailureUsesOperationDefault(t *testing.T) {
	client, done := newWorkClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`boom`))
	})
	defer done()

	_, err := client.ListProposals(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Failed to fetch work proposals")
}

func TestGetProgressPassesThrough(t *testing.T) {
	const payload = `{"success":true,"data":[{"id":1,"desc":"day one"}]}`
	client, done := newWorkClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/work-proposals/5/progress", r.URL.Path)
		w.Write([]byte(payload))
	})
	defer done()

	raw, err := client.GetProgress(context.Background(), "5")
	require.NoError(t, err)
	assert.JSONEq(t, payload, string(raw))
}
