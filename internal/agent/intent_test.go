package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyIntent(t *testing.T) {
	cases := []struct {
		question string
		want     Intent
	}{
		{"Register doctor John Smith, email john@clinic.com", IntentRegisterDoctor},
		{"add new doctor Jane Doe", IntentRegisterDoctor},
		{"Register patient Alice Brown", IntentRegisterPatient},
		{"add specialization Cardiology", IntentRegisterSpecialization},
		{"Add availability for Dr. Smith on Monday from 09:00 to 17:00", IntentRegisterAvailability},
		{"set schedule for Dr. Smith on Tuesday", IntentRegisterAvailability},
		{"Book an appointment for Alice with Dr. Smith on Monday at 09:30", IntentBookAppointment},
		{"schedule Bob with Dr. Smith tomorrow at 10:00", IntentBookAppointment},
		{"Cancel my appointment with Dr. Smith", IntentCancelAppointment},
		{"Reschedule appointment 42 to Friday at 14:00", IntentRescheduleAppointment},
		{"move appointment to next week", IntentRescheduleAppointment},
		{"List all doctors", IntentQuery},
		{"what is the email of Dr. Smith?", IntentQuery},
		{"help", IntentHelp},
		{"blargh", IntentUnknown},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, ClassifyIntent(tc.question), "question: %s", tc.question)
	}
}

func TestClassifyIntentAvailabilityBeatsDoctorRegistration(t *testing.T) {
	// "add doctor availability" must not be claimed by the "add doctor" rule.
	assert.Equal(t, IntentRegisterAvailability, ClassifyIntent("add doctor availability for John Smith on Monday"))
}
