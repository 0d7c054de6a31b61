package agent

import "strings"

// Intent is one of the fixed commands the agent understands.
type Intent string

const (
	IntentRegisterDoctor         Intent = "register_doctor"
	IntentRegisterPatient        Intent = "register_patient"
	IntentRegisterSpecialization Intent = "register_specialization"
	IntentRegisterAvailability   Intent = "register_availability"
	IntentBookAppointment        Intent = "book_appointment"
	IntentCancelAppointment      Intent = "cancel_appointment"
	IntentRescheduleAppointment  Intent = "reschedule_appointment"
	IntentQuery                  Intent = "query"
	IntentHelp                   Intent = "help"
	IntentUnknown                Intent = "unknown"
)

// Keyword lists checked in order. Registration phrases come first so that
// "add doctor availability" is not claimed by the bare "add doctor" rule, and
// reschedule/cancel outrank book so "move my appointment" is not a booking.
var intentKeywords = []struct {
	intent   Intent
	keywords []string
}{
	{IntentRegisterAvailability, []string{
		"add availability", "set availability", "create availability",
		"add doctor availability", "set doctor availability", "add schedule", "set schedule",
	}},
	{IntentRegisterDoctor, []string{
		"register doctor", "add doctor", "create doctor", "new doctor",
		"sign up doctor", "register new doctor", "add new doctor",
	}},
	{IntentRegisterPatient, []string{
		"register patient", "add patient", "create patient", "new patient",
		"sign up patient", "register new patient", "add new patient",
	}},
	{IntentRegisterSpecialization, []string{
		"register specialization", "add specialization", "create specialization",
		"new specialization", "add new specialization",
	}},
	{IntentRescheduleAppointment, []string{
		"reschedule", "change time", "move appointment", "shift", "postpone",
		"change date", "change appointment", "update time", "update appointment",
	}},
	{IntentCancelAppointment, []string{
		"cancel", "remove appointment", "drop appointment",
	}},
	{IntentBookAppointment, []string{
		"book", "schedule", "make appointment", "create appointment", "add appointment",
	}},
	{IntentHelp, []string{
		"help", "what can you do", "how to", "guide", "instructions", "support",
	}},
	{IntentQuery, []string{
		"find", "search", "look for", "show", "list", "get", "display",
		"what is", "who is", "when is", "how many",
	}},
}

// ClassifyIntent maps free text to an intent via keyword matching.
func ClassifyIntent(question string) Intent {
	q := strings.ToLower(strings.TrimSpace(question))
	for _, entry := range intentKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(q, kw) {
				return entry.intent
			}
		}
	}
	return IntentUnknown
}
