package berth

import (
	"testing"
)

func TestNewWithClient_Defaults(t *testing.T) {
	e := NewWithClient(nil, EngineOptions{LabelPrefix: "dev.seqpack"})

	if got, want := e.ManagedLabelKey(), "dev.seqpack.managed"; got != want {
		t.Errorf("ManagedLabelKey() = %q, want %q", got, want)
	}
	if got, want := e.ManagedLabelValue(), "true"; got != want {
		t.Errorf("ManagedLabelValue() = %q, want %q", got, want)
	}
}

func TestNewWithClient_CustomManagedLabel(t *testing.T) {
	e := NewWithClient(nil, EngineOptions{
		LabelPrefix:  "dev.seqpack",
		ManagedLabel: "owned",
	})

	if got, want := e.ManagedLabelKey(), "dev.seqpack.owned"; got != want {
		t.Errorf("ManagedLabelKey() = %q, want %q", got, want)
	}
}

func TestEngine_ManagedLabels(t *testing.T) {
	e := NewWithClient(nil, EngineOptions{
		LabelPrefix: "dev.seqpack",
		ExtraLabels: map[string]string{"dev.seqpack.version": "1.0.0"},
	})

	labels := e.managedLabels(map[string]string{"dev.seqpack.project": "demo"})

	want := map[string]string{
		"dev.seqpack.managed": "true",
		"dev.seqpack.version": "1.0.0",
		"dev.seqpack.project": "demo",
	}
	for k, v := range want {
		if labels[k] != v {
			t.Errorf("managedLabels()[%q] = %q, want %q", k, labels[k], v)
		}
	}
}

func TestEngine_ManagedFilter(t *testing.T) {
	e := NewWithClient(nil, EngineOptions{LabelPrefix: "dev.seqpack"})

	f := e.managedFilter()
	if !f.ExactMatch("label", "dev.seqpack.managed=true") {
		t.Error("managedFilter() should contain the managed label")
	}
}

func TestEngine_IsManagedLabelPresent(t *testing.T) {
	e := NewWithClient(nil, EngineOptions{LabelPrefix: "dev.seqpack"})

	tests := []struct {
		name   string
		labels map[string]string
		want   bool
	}{
		{"present", map[string]string{"dev.seqpack.managed": "true"}, true},
		{"wrong value", map[string]string{"dev.seqpack.managed": "false"}, false},
		{"absent", map[string]string{"other": "true"}, false},
		{"nil labels", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := e.isManagedLabelPresent(tt.labels); got != tt.want {
				t.Errorf("isManagedLabelPresent() = %v, want %v", got, tt.want)
			}
		})
	}
}
