package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/thefixer3x/vortexcore-api/internal/sign"
)

func newTestSigner(t *testing.T) *sign.Signer {
	t.Helper()
	s, err := sign.NewSigner("test-secret")
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestClient_Initialize_Success(t *testing.T) {
	signer := newTestSigner(t)
	payload := map[string]string{
		"email":     "a@b.c",
		"amount":    "100.00",
		"currency":  "NGN",
		"reference": "VTX-1",
	}

	var gotPath, gotSig, gotCT string
	var gotBody map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotSig = r.Header.Get(SignatureHeader)
		gotCT = r.Header.Get("Content-Type")
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"status":true,"message":"Authorization URL created","data":{"authorization_url":"https://pay.test/x","reference":"VTX-1"}}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, signer, srv.Client())
	resp, err := c.Initialize(context.Background(), payload)
	if err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	if gotPath != "/transaction/initialize" {
		t.Fatalf("path = %q", gotPath)
	}
	if gotCT != "application/json" {
		t.Fatalf("content type = %q", gotCT)
	}
	if want := signer.Sign(payload); gotSig != want {
		t.Fatalf("signature header = %q; want %q", gotSig, want)
	}
	if gotBody["reference"] != "VTX-1" || gotBody["amount"] != "100.00" {
		t.Fatalf("forwarded body = %#v", gotBody)
	}
	if !resp.Status || resp.Message != "Authorization URL created" {
		t.Fatalf("resp = %+v", resp)
	}
	var data struct {
		AuthorizationURL string `json:"authorization_url"`
	}
	if err := json.Unmarshal(resp.Data, &data); err != nil || data.AuthorizationURL == "" {
		t.Fatalf("data = %s (%v)", resp.Data, err)
	}
}

func TestClient_Initialize_GatewayRejection(t *testing.T) {
	cases := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{"json message field", 400, `{"status":false,"message":"Invalid merchant credentials"}`, "Invalid merchant credentials"},
		{"json error field", 422, `{"error":"amount below minimum"}`, "amount below minimum"},
		{"plain text body", 500, "upstream exploded", "upstream exploded"},
		{"empty body", 503, "", "gateway returned an empty error response"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				io.WriteString(w, tc.body)
			}))
			defer srv.Close()

			c := NewClient(srv.URL, newTestSigner(t), srv.Client())
			_, err := c.Initialize(context.Background(), map[string]string{"k": "v"})

			var ge *Error
			if !errors.As(err, &ge) {
				t.Fatalf("err = %v; want *gateway.Error", err)
			}
			if ge.StatusCode != tc.status || ge.Message != tc.wantMsg {
				t.Fatalf("got (%d, %q); want (%d, %q)", ge.StatusCode, ge.Message, tc.status, tc.wantMsg)
			}
		})
	}
}

func TestClient_Initialize_NetworkErrorIsNotGatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	c := NewClient(srv.URL, newTestSigner(t), nil)
	_, err := c.Initialize(context.Background(), map[string]string{"k": "v"})
	if err == nil {
		t.Fatal("expected error from closed server")
	}
	var ge *Error
	if errors.As(err, &ge) {
		t.Fatalf("network failure surfaced as *gateway.Error: %v", err)
	}
}

func TestClient_Initialize_ContextCancel(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer srv.Close()
	defer close(block)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewClient(srv.URL, newTestSigner(t), srv.Client())
	if _, err := c.Initialize(ctx, map[string]string{"k": "v"}); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v; want context.Canceled", err)
	}
}

func TestClient_VerifyWebhook(t *testing.T) {
	signer := newTestSigner(t)
	c := NewClient("http://unused", signer, nil)

	body := []byte(`{"reference":"VTX-1","status":"success"}`)
	sig := signer.SignBody(body)

	if !c.VerifyWebhook(body, sig) {
		t.Fatal("valid signature rejected")
	}
	if !c.VerifyWebhook(body, strings.ToUpper(sig)) {
		t.Fatal("hex case must not matter")
	}
	if c.VerifyWebhook([]byte(`{"reference":"VTX-2"}`), sig) {
		t.Fatal("signature over different bytes accepted")
	}
}

func TestError_Error(t *testing.T) {
	e := &Error{StatusCode: 402, Message: "insufficient funds"}
	got := e.Error()
	if !strings.Contains(got, "insufficient funds") || !strings.Contains(got, "402") {
		t.Fatalf("Error() = %q", got)
	}
}
