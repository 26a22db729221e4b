package gcp

import (
	"testing"
)

func TestNormalizeSecretPath(t *testing.T) {
	tests := []struct {
		name       string
		projectID  string
		secretPath string
		want       string
	}{
		{
			name:       "full path with version",
			secretPath: "projects/my-project/secrets/linear-key/versions/3",
			want:       "projects/my-project/secrets/linear-key/versions/3",
		},
		{
			name:       "full path without version",
			secretPath: "projects/my-project/secrets/linear-key",
			want:       "projects/my-project/secrets/linear-key/versions/latest",
		},
		{
			name:       "secret name only",
			projectID:  "dev-tools",
			secretPath: "linear-key",
			want:       "projects/dev-tools/secrets/linear-key/versions/latest",
		},
		{
			name:       "secret name with path prefix",
			projectID:  "dev-tools",
			secretPath: "team/linear-key",
			want:       "projects/dev-tools/secrets/linear-key/versions/latest",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &SecretManagerClient{projectID: tt.projectID}
			if got := client.normalizeSecretPath(tt.secretPath); got != tt.want {
				t.Errorf("normalizeSecretPath(%q) = %q, want %q", tt.secretPath, got, tt.want)
			}
		})
	}
}

func TestProjectIDFromEnv(t *testing.T) {
	for _, key := range []string{"GOOGLE_CLOUD_PROJECT", "GCP_PROJECT", "GCLOUD_PROJECT", "CLOUDSDK_CORE_PROJECT"} {
		t.Setenv(key, "")
	}
	if got := projectIDFromEnv(); got != "" {
		t.Errorf("projectIDFromEnv() = %q, want empty", got)
	}

	t.Setenv("GCLOUD_PROJECT", "from-gcloud")
	if got := projectIDFromEnv(); got != "from-gcloud" {
		t.Errorf("projectIDFromEnv() = %q, want from-gcloud", got)
	}

	t.Setenv("GOOGLE_CLOUD_PROJECT", "from-google")
	if got := projectIDFromEnv(); got != "from-google" {
		t.Errorf("GOOGLE_CLOUD_PROJECT should win, got %q", got)
	}
}

func TestCloseNilClient(t *testing.T) {
	c := &SecretManagerClient{}
	if err := c.Close(); err != nil {
		t.Errorf("Close() on empty client = %v", err)
	}
}
