package waitingroom

import "testing"

func TestPatientLabel(t *testing.T) {
	base := Call{
		Patient:     Patient{ID: "p1", FirstName: "élodie", LastName: "Mansouri"},
		QueueNumber: 14,
	}

	tests := []struct {
		mode DisplayMode
		want string
	}{
		{DisplayFullName, "élodie Mansouri"},
		{DisplayFirstNameOnly, "élodie"},
		{DisplayInitials, "É. M."},
		{DisplayAnonymous, "Patient n°14"},
		{DisplayMode(""), "élodie"},
	}

	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			c := base
			c.DisplayMode = tt.mode
			if got := c.PatientLabel(); got != tt.want {
				t.Errorf("PatientLabel() = %q, want %q", got, tt.want)
			}
		})
	}

	t.Run("initials without last name", func(t *testing.T) {
		c := Call{Patient: Patient{FirstName: "Sami"}, DisplayMode: DisplayInitials}
		if got := c.PatientLabel(); got != "S." {
			t.Errorf("PatientLabel() = %q, want %q", got, "S.")
		}
	})
}

func TestDoctorLabel(t *testing.T) {
	c := Call{Doctor: Doctor{FirstName: "Karim", LastName: "Amrani"}}
	if got := c.DoctorLabel(); got != "Dr. Karim Amrani" {
		t.Errorf("DoctorLabel() = %q", got)
	}

	c = Call{Doctor: Doctor{LastName: "Amrani"}}
	if got := c.DoctorLabel(); got != "Dr. Amrani" {
		t.Errorf("DoctorLabel() = %q", got)
	}
}

func TestDisplayModeValid(t *testing.T) {
	for _, m := range []DisplayMode{DisplayFullName, DisplayFirstNameOnly, DisplayInitials, DisplayAnonymous} {
		if !m.Valid() {
			t.Errorf("%q should be valid", m)
		}
	}
	if DisplayMode("FULL_NAME").Valid() {
		t.Error("display modes are case sensitive")
	}
}

func TestSettingsPatchApply(t *testing.T) {
	initials := DisplayInitials
	interval := 10
	yes := true

	got := SettingsPatch{
		DisplayMode:         &initials,
		AutoRefreshInterval: &interval,
		ShowEstimatedTime:   &yes,
	}.Apply(DefaultSettings())

	want := Settings{
		DisplayMode:         DisplayInitials,
		AutoRefreshInterval: 10,
		SoundEnabled:        true,
		AnimationEnabled:    true,
		ShowQueueNumber:     false,
		ShowEstimatedTime:   true,
	}
	if got != want {
		t.Errorf("Apply() = %+v, want %+v", got, want)
	}

	if (SettingsPatch{}).Apply(want) != want {
		t.Error("Empty patch must be a no-op")
	}
}
