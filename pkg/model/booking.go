package model

import "time"

type VenueType string

const (
	VenueDomeTent     VenueType = "dome-tent"
	VenueTrainingHall VenueType = "training-hall"
)

var Venues = []VenueType{VenueDomeTent, VenueTrainingHall}

func (v VenueType) Valid() bool {
	return v == VenueDomeTent || v == VenueTrainingHall
}

// Label is the human readable venue name used in emails and dashboards.
func (v VenueType) Label() string {
	switch v {
	case VenueDomeTent:
		return "Dome Tent"
	case VenueTrainingHall:
		return "Training Hall"
	default:
		return string(v)
	}
}

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)

// Normalize maps an absent status to pending. Records written before the
// status field existed are read this way everywhere.
func (s Status) Normalize() Status {
	if s == "" {
		return StatusPending
	}
	return s
}

func (s Status) Valid() bool {
	switch s.Normalize() {
	case StatusPending, StatusConfirmed, StatusCancelled:
		return true
	}
	return false
}

type ActivityType struct {
	Training bool   `json:"training" bson:"training"`
	Seminar  bool   `json:"seminar" bson:"seminar"`
	Workshop bool   `json:"workshop" bson:"workshop"`
	Meeting  bool   `json:"meeting" bson:"meeting"`
	Others   string `json:"others,omitempty" bson:"others,omitempty" validate:"max=200"`
}

type RoomLayout struct {
	Classroom bool `json:"classroom" bson:"classroom"`
	Theater   bool `json:"theater" bson:"theater"`
	UShape    bool `json:"u_shape" bson:"u_shape"`
	Boardroom bool `json:"boardroom" bson:"boardroom"`
}

type Equipment struct {
	ProjectorAndScreen bool   `json:"projector_and_screen" bson:"projector_and_screen"`
	Lectern            bool   `json:"lectern" bson:"lectern"`
	Tables             bool   `json:"tables" bson:"tables"`
	TablesQuantity     int    `json:"tables_quantity,omitempty" bson:"tables_quantity,omitempty" validate:"min=0,max=1000"`
	Whiteboard         bool   `json:"whiteboard" bson:"whiteboard"`
	SoundSystem        bool   `json:"sound_system" bson:"sound_system"`
	FlagStand          bool   `json:"flag_stand" bson:"flag_stand"`
	Chairs             bool   `json:"chairs" bson:"chairs"`
	ChairsQuantity     int    `json:"chairs_quantity,omitempty" bson:"chairs_quantity,omitempty" validate:"min=0,max=5000"`
	Others             string `json:"others,omitempty" bson:"others,omitempty" validate:"max=200"`
}

// Booking is a reservation request for one venue on one calendar day. Only
// Status changes after creation.
type Booking struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	VenueType VenueType `json:"type" bson:"type" validate:"required,venue"`
	Date      time.Time `json:"date" bson:"date" validate:"required"`
	StartTime string    `json:"start_time" bson:"start_time" validate:"required,hhmm"`
	EndTime   string    `json:"end_time" bson:"end_time" validate:"required,hhmm,after_start"`
	Status    Status    `json:"status" bson:"status" validate:"omitempty,oneof=pending confirmed cancelled"`

	BookingReferenceNo           string       `json:"booking_reference_no,omitempty" bson:"booking_reference_no,omitempty" validate:"max=50"`
	DateOfRequest                string       `json:"date_of_request,omitempty" bson:"date_of_request,omitempty" validate:"max=50"`
	ContactPerson                string       `json:"contact_person" bson:"contact_person" validate:"required,min=2,max=100"`
	RequestingOffice             string       `json:"requesting_office,omitempty" bson:"requesting_office,omitempty" validate:"max=200"`
	MobileNo                     string       `json:"mobile_no" bson:"mobile_no" validate:"required,mobile11"`
	ClientEmail                  string       `json:"client_email,omitempty" bson:"client_email,omitempty" validate:"omitempty,email"`
	EventTitle                   string       `json:"event_title,omitempty" bson:"event_title,omitempty" validate:"max=200"`
	TypeOfEvent                  string       `json:"type_of_event,omitempty" bson:"type_of_event,omitempty" validate:"max=100"`
	TypeOfActivity               ActivityType `json:"type_of_activity" bson:"type_of_activity"`
	PreferredDates               string       `json:"preferred_dates,omitempty" bson:"preferred_dates,omitempty" validate:"max=200"`
	ExpectedNumberOfParticipants int          `json:"expected_number_of_participants,omitempty" bson:"expected_number_of_participants,omitempty" validate:"min=0,max=10000"`
	RoomLayoutPreference         RoomLayout   `json:"room_layout_preference" bson:"room_layout_preference"`
	EquipmentNeeded              Equipment    `json:"equipment_needed" bson:"equipment_needed"`
	AdditionalNotes              string       `json:"additional_notes,omitempty" bson:"additional_notes,omitempty" validate:"max=2000"`

	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// EffectiveStatus is the status with an absent value read as pending.
func (b *Booking) EffectiveStatus() Status {
	return b.Status.Normalize()
}

// DisplayTitle falls back to the venue label for bookings without a title.
func (b *Booking) DisplayTitle() string {
	if b.EventTitle != "" {
		return b.EventTitle
	}
	return b.VenueType.Label()
}
