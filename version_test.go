package distillagent

import "testing"

func TestGetVersion(t *testing.T) {
	if got := GetVersion(); got != Version {
		t.Errorf("GetVersion() = %q, want %q", got, Version)
	}
	if Version == "" {
		t.Error("Version should not be empty")
	}
}
