package telemetry

import "testing"

func TestParseTarget(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		exporter string
		endpoint string
		want     exportTarget
		wantErr  bool
	}{
		{name: "stdout ignores endpoint", exporter: ExporterStdout, endpoint: "http://x:1", want: exportTarget{}},
		{name: "http url", exporter: ExporterOTLP, endpoint: "http://collector:4318", want: exportTarget{otlp: true, host: "collector:4318", insecure: true}},
		{name: "https url", exporter: ExporterOTLP, endpoint: "https://collector:4318", want: exportTarget{otlp: true, host: "collector:4318"}},
		{name: "bare host port", exporter: ExporterOTLP, endpoint: "collector:4318", want: exportTarget{otlp: true, host: "collector:4318", insecure: true}},
		{name: "missing endpoint", exporter: ExporterOTLP, wantErr: true},
		{name: "unknown exporter", exporter: "jaeger", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := parseTarget(tt.exporter, tt.endpoint)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseTarget() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("parseTarget() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
