package nut

import (
	"reflect"
	"testing"
)

func TestParseBlock(t *testing.T) {
	tests := []struct {
		name string
		text string
		want map[string]string
	}{
		{
			"colon separated",
			"battery.charge: 100\nups.status: OL CHRG\n",
			map[string]string{"battery.charge": "100", "ups.status": "OL CHRG"},
		},
		{
			"equals separated",
			"battery.charge=100\nups.status=OB LB",
			map[string]string{"battery.charge": "100", "ups.status": "OB LB"},
		},
		{
			"noise lines skipped",
			"Init SSL without certificate database\nups.status: OL\n\njust some text",
			map[string]string{"ups.status": "OL"},
		},
		{
			"value containing colon keeps remainder",
			"device.model: Smart-UPS 1500: rackmount",
			map[string]string{"device.model": "Smart-UPS 1500: rackmount"},
		},
		{
			"whitespace trimmed",
			"  battery.runtime :  1430  ",
			map[string]string{"battery.runtime": "1430"},
		},
		{
			"empty value kept",
			"ups.test.result:",
			map[string]string{"ups.test.result": ""},
		},
		{
			"empty key skipped",
			": orphan value\nups.status: OL",
			map[string]string{"ups.status": "OL"},
		},
		{
			"empty input",
			"",
			map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseBlock(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseBlock(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}
