package origin

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/assignment"
	"github.com/trezcool/darasa/core/course"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	conf := &core.Config{}
	conf.Origin.BaseURL = srv.URL
	conf.Origin.Timeout = 5 * time.Second
	return NewClient(conf, core.StaticToken("test-token")), srv
}

func TestClient_bearerHeader(t *testing.T) {
	var gotAuth string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode([]course.Course{})
	}))

	_, err := client.ListCourses(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, "Bearer test-token", gotAuth)
}

func TestClient_statusToKind(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   core.ErrorKind
	}{
		{name: "not found", status: http.StatusNotFound, want: core.KindNotFound},
		{name: "validation", status: http.StatusBadRequest, want: core.KindValidation},
		{name: "unauthorized", status: http.StatusUnauthorized, want: core.KindUnauthorized},
		{name: "forbidden", status: http.StatusForbidden, want: core.KindUnauthorized},
		{name: "server fault", status: http.StatusInternalServerError, want: core.KindServerFault},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_ = json.NewEncoder(w).Encode(map[string]string{"error": "nope"})
			}))

			_, err := client.GetCourse(context.Background(), "crs_1")
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			assert.Equal(t, tt.want, core.KindOf(err))
			assert.Contains(t, err.Error(), "nope")
		})
	}
}

func TestClient_networkUnavailable(t *testing.T) {
	conf := &core.Config{}
	conf.Origin.BaseURL = "http://127.0.0.1:1" // nothing listens here
	conf.Origin.Timeout = 500 * time.Millisecond
	client := NewClient(conf, core.StaticToken("tok"))

	_, err := client.ListCourses(context.Background())
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	assert.Equal(t, core.KindNetworkUnavailable, core.KindOf(err))
}

func TestClient_submitRoundTrip(t *testing.T) {
	var gotPath, gotMethod string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotMethod = r.URL.Path, r.Method

		var payload assignment.SubmissionPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decoding payload: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(assignment.Submission{
			ID:           "sub_1",
			AssignmentID: "asg_1",
			StudentID:    "std_1",
			Content:      payload.Content(),
			SubmittedAt:  time.Now().UTC(),
		})
	}))

	sub, err := client.SubmitAssignment(context.Background(), "asg_1", assignment.SubmissionPayload{Text: "essay"})
	if err != nil {
		t.Fatalf("SubmitAssignment() failed: %v", err)
	}
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/assignments/asg_1/submissions", gotPath)
	assert.Equal(t, "essay", sub.Content.Text)
}

func TestClient_createPaymentIntent(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/payments/intent", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(PaymentAuth{AuthorizationURL: "https://pay.example.com/cs_1"})
	}))

	auth, err := client.CreatePaymentIntent(context.Background(), PaymentIntent{CourseID: "crs_1", Amount: 120})
	if err != nil {
		t.Fatalf("CreatePaymentIntent() failed: %v", err)
	}
	assert.Equal(t, "https://pay.example.com/cs_1", auth.AuthorizationURL)

	// an invalid intent never reaches the origin
	_, err = client.CreatePaymentIntent(context.Background(), PaymentIntent{})
	assert.Error(t, err)
}

func TestParsePaymentRedirect(t *testing.T) {
	tests := []struct {
		name        string
		rawURL      string
		wantResult  *PaymentResult
		wantCleaned string
	}{
		{
			name:        "success redirect",
			rawURL:      "https://app.example.com/dashboard?status=success&message=Payment+complete",
			wantResult:  &PaymentResult{Status: "success", Message: "Payment complete"},
			wantCleaned: "https://app.example.com/dashboard",
		},
		{
			name:        "failure keeps other params",
			rawURL:      "https://app.example.com/dashboard?tab=courses&status=failed&message=Declined",
			wantResult:  &PaymentResult{Status: "failed", Message: "Declined"},
			wantCleaned: "https://app.example.com/dashboard?tab=courses",
		},
		{
			name:        "no payment params",
			rawURL:      "https://app.example.com/dashboard?tab=courses",
			wantResult:  nil,
			wantCleaned: "https://app.example.com/dashboard?tab=courses",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, cleaned, err := ParsePaymentRedirect(tt.rawURL)
			if err != nil {
				t.Fatalf("ParsePaymentRedirect() failed: %v", err)
			}
			assert.Equal(t, tt.wantResult, res)
			assert.Equal(t, tt.wantCleaned, cleaned)
		})
	}
}
