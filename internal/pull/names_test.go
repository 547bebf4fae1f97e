package pull

import "testing"

func TestFolderName(t *testing.T) {
	tests := []struct {
		display string
		want    string
	}{
		{"Communication Templates", "Communication"},
		{"Lava Application Content", "Lava Application Content"},
		{"  Application Rigging  ", "Application Rigging"},
		{"Application Rigging Extra", "Application"},
		{"Single", "Single"},
		{"  Padded\tName ", "Padded"},
		{"", ""},
		{"   ", ""},
	}

	for _, tt := range tests {
		if got := FolderName(tt.display); got != tt.want {
			t.Errorf("FolderName(%q) = %q, want %q", tt.display, got, tt.want)
		}
	}
}

func TestEndpointName(t *testing.T) {
	tests := []struct {
		display string
		want    string
	}{
		{"Get Person [v2]", "get-person-v2"},
		{"List  Groups", "list-groups"},
		{"[Beta] Check\tIn", "beta-check-in"},
		{"simple", "simple"},
	}

	for _, tt := range tests {
		if got := EndpointName(tt.display); got != tt.want {
			t.Errorf("EndpointName(%q) = %q, want %q", tt.display, got, tt.want)
		}
	}
}
