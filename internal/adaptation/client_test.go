package adaptation_test

import (
	"encoding/json"
	"testing"

	"cloudproxy/internal/adaptation"
	"cloudproxy/internal/config"
)

func TestNewSelectsTransport(t *testing.T) {
	cfg := config.Default()

	cfg.Adaptation.Transport = config.TransportHTTP
	client, err := adaptation.New(&cfg)
	if err != nil {
		t.Fatalf("New http: %v", err)
	}
	if _, ok := client.(*adaptation.HTTPClient); !ok {
		t.Fatalf("expected *HTTPClient, got %T", client)
	}

	cfg.Adaptation.Transport = config.TransportRPC
	client, err = adaptation.NewFactory(&cfg)()
	if err != nil {
		t.Fatalf("New rpc: %v", err)
	}
	if _, ok := client.(*adaptation.RPCClient); !ok {
		t.Fatalf("expected *RPCClient, got %T", client)
	}

	cfg.Adaptation.Transport = "carrier-pigeon"
	if _, err := adaptation.New(&cfg); err == nil {
		t.Fatal("expected error for unknown transport")
	}
	if _, err := adaptation.New(nil); err == nil {
		t.Fatal("expected error for nil config")
	}
}

func TestFileOutcomeUnmarshal(t *testing.T) {
	tests := []struct {
		in   string
		want adaptation.FileOutcome
	}{
		{in: `{"outcome":"unmodified"}`, want: "unmodified"},
		{in: `{"outcome":3}`, want: "3"},
		{in: `{"outcome":null}`, want: ""},
		{in: `{}`, want: ""},
	}
	for _, tt := range tests {
		var resp adaptation.ProcessResponse
		if err := jsonUnmarshal(tt.in, &resp); err != nil {
			t.Fatalf("unmarshal %s: %v", tt.in, err)
		}
		if resp.Outcome != tt.want {
			t.Fatalf("unmarshal %s: got %q want %q", tt.in, resp.Outcome, tt.want)
		}
	}
	var resp adaptation.ProcessResponse
	if err := jsonUnmarshal(`{"outcome":true}`, &resp); err == nil {
		t.Fatal("expected error for boolean outcome")
	}
}

func jsonUnmarshal(data string, v any) error {
	return json.Unmarshal([]byte(data), v)
}
