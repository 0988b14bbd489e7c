package discovery

import "testing"

func TestEndpointURLs(t *testing.T) {
	tests := []struct {
		name       string
		endpoint   Endpoint
		wantBase   string
		wantUpload string
	}{
		{
			name:       "plain http",
			endpoint:   Endpoint{IP: "192.168.1.20", Port: 8640, Path: "/upload"},
			wantBase:   "http://192.168.1.20:8640",
			wantUpload: "http://192.168.1.20:8640/upload",
		},
		{
			name:       "tls",
			endpoint:   Endpoint{IP: "192.168.1.20", Port: 8643, Secure: true, Path: "/upload"},
			wantBase:   "https://192.168.1.20:8643",
			wantUpload: "https://192.168.1.20:8643/upload",
		},
		{
			name:       "missing path falls back to default",
			endpoint:   Endpoint{IP: "10.0.0.5", Port: 8640},
			wantBase:   "http://10.0.0.5:8640",
			wantUpload: "http://10.0.0.5:8640/upload",
		},
		{
			name:       "custom path",
			endpoint:   Endpoint{IP: "10.0.0.5", Port: 8640, Path: "/ingest"},
			wantBase:   "http://10.0.0.5:8640",
			wantUpload: "http://10.0.0.5:8640/ingest",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.endpoint.BaseURL(); got != tt.wantBase {
				t.Errorf("BaseURL() = %v, want %v", got, tt.wantBase)
			}
			if got := tt.endpoint.UploadURL(); got != tt.wantUpload {
				t.Errorf("UploadURL() = %v, want %v", got, tt.wantUpload)
			}
		})
	}
}

func TestEndpointMetadata(t *testing.T) {
	ep := &Endpoint{Metadata: map[string]string{"version": "1"}}
	if got := ep.GetMetadata("version"); got != "1" {
		t.Errorf("GetMetadata(version) = %v, want 1", got)
	}
	if got := ep.GetMetadata("missing"); got != "" {
		t.Errorf("GetMetadata(missing) = %v, want empty", got)
	}

	var bare Endpoint
	if got := bare.GetMetadata("any"); got != "" {
		t.Errorf("GetMetadata on nil map = %v, want empty", got)
	}
}
