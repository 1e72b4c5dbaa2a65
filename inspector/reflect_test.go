package inspector

import "testing"

func TestParseTag(t *testing.T) {
	tests := []struct {
		tag     string
		widget  Widget
		options map[string]string
	}{
		{"", WidgetAuto, map[string]string{}},
		{"skip", WidgetSkip, map[string]string{}},
		{"bar,max:200", WidgetBar, map[string]string{"max": "200"}},
		{"label, fmt:%.1f ,label:X", WidgetLabel, map[string]string{"fmt": "%.1f", "label": "X"}},
		{"bool", WidgetBool, map[string]string{}},
		{"mystery", WidgetAuto, map[string]string{}},
	}
	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			w, opts := ParseTag(tt.tag)
			if w != tt.widget {
				t.Errorf("widget = %v, want %v", w, tt.widget)
			}
			if len(opts) != len(tt.options) {
				t.Fatalf("options = %v, want %v", opts, tt.options)
			}
			for k, v := range tt.options {
				if opts[k] != v {
					t.Errorf("option %q = %q, want %q", k, opts[k], v)
				}
			}
		})
	}
}

func TestExtractFields(t *testing.T) {
	type sample struct {
		Speed   float32 `inspect:"bar,max:10,label:Spd"`
		Hidden  int     `inspect:"skip"`
		Enabled bool
		Count   int
		private int
	}
	fields := ExtractFields(&sample{Speed: 2.5, Enabled: true, Count: 3, private: 1})
	if len(fields) != 3 {
		t.Fatalf("got %d fields, want 3: %+v", len(fields), fields)
	}

	want := []struct {
		name   string
		widget Widget
	}{
		{"Spd", WidgetBar},
		{"Enabled", WidgetBool},
		{"Count", WidgetLabel},
	}
	for i, w := range want {
		if fields[i].Name != w.name || fields[i].Widget != w.widget {
			t.Errorf("field %d = %s/%v, want %s/%v", i, fields[i].Name, fields[i].Widget, w.name, w.widget)
		}
	}
	if GetMax(fields[0].Options) != 10 {
		t.Errorf("max = %v, want 10", GetMax(fields[0].Options))
	}

	if ExtractFields(42) != nil {
		t.Error("ExtractFields on a non-struct should return nil")
	}
}

func TestParticleViewFields(t *testing.T) {
	fields := ExtractFields(ParticleView{})
	if len(fields) != 15 {
		t.Errorf("ParticleView exposes %d fields, want 15", len(fields))
	}
	for _, f := range fields {
		if f.Widget == WidgetAuto {
			t.Errorf("field %s has no resolved widget", f.Name)
		}
	}
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		value any
		fmt   string
		want  string
	}{
		{float32(1.234), "", "1.23"},
		{float64(2), "", "2.00"},
		{7, "", "7"},
		{float32(3.14159), "%.1f", "3.1"},
		{true, "", "true"},
	}
	for _, tt := range tests {
		if got := FormatValue(tt.value, tt.fmt); got != tt.want {
			t.Errorf("FormatValue(%v, %q) = %q, want %q", tt.value, tt.fmt, got, tt.want)
		}
	}
}

func TestGetFloatValue(t *testing.T) {
	if v, ok := GetFloatValue(uint32(4)); !ok || v != 4 {
		t.Errorf("uint32: %v, %v", v, ok)
	}
	if v, ok := GetFloatValue(float64(0.5)); !ok || v != 0.5 {
		t.Errorf("float64: %v, %v", v, ok)
	}
	if _, ok := GetFloatValue("x"); ok {
		t.Error("string should not convert")
	}
	if GetMax(map[string]string{"max": "bad"}) != 1 {
		t.Error("bad max should default to 1")
	}
}
