package models

import "time"

// BookingState is the lifecycle state reported by upstream.
type BookingState string

const (
	BookingCreated          BookingState = "CREATED"
	BookingQuestionsPending BookingState = "QUESTIONS_PENDING"
	BookingCanCommit        BookingState = "CAN_COMMIT"
	BookingPending          BookingState = "PENDING"
	BookingConfirmed        BookingState = "CONFIRMED"
	BookingRejected         BookingState = "REJECTED"
	BookingCancelled        BookingState = "CANCELLED"
)

// IsTerminal reports whether no further transitions are valid.
func (s BookingState) IsTerminal() bool {
	return s == BookingConfirmed || s == BookingRejected || s == BookingCancelled
}

// Booking is the aggregate root of one booking attempt. It is persisted
// upstream, never locally; this struct is a snapshot of upstream state.
type Booking struct {
	ID         string        `json:"id"`
	Reference  string        `json:"reference,omitempty"` // partner-facing booking code
	State      BookingState  `json:"state"`
	CanCommit  bool          `json:"canCommit"`
	Items      []BookingItem `json:"availabilityList,omitempty"`
	Questions  []Question    `json:"questionList,omitempty"`
	TotalPrice float64       `json:"totalPrice,omitempty"`
	Currency   string        `json:"currency,omitempty"`
	CreatedAt  time.Time     `json:"createdAt,omitempty"`
	LeadGuest  *Guest        `json:"leadGuest,omitempty"`
}

// BookingItem is one availability line attached to a booking.
type BookingItem struct {
	ID             string  `json:"id"`
	AvailabilityID string  `json:"availabilityId"`
	ProductID      string  `json:"productId,omitempty"`
	ProductName    string  `json:"productName,omitempty"`
	Price          float64 `json:"price,omitempty"`
	IsComplete     bool    `json:"isComplete"` // all questions on this item answered
}

// Guest holds lead-guest contact details submitted as booking answers.
type Guest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// QuestionLevel distinguishes where in the booking a question attaches.
type QuestionLevel string

const (
	QuestionLevelBooking      QuestionLevel = "BOOKING"
	QuestionLevelAvailability QuestionLevel = "AVAILABILITY"
	QuestionLevelPerson       QuestionLevel = "PERSON"
)

// Question is a prompt that must be answered before the booking can commit.
// The unanswered set shrinks monotonically as answers are submitted, though
// answering one question can reveal dependent ones.
type Question struct {
	ID       string        `json:"id"`
	Level    QuestionLevel `json:"level"`
	ItemID   string        `json:"itemId,omitempty"`   // set for availability/person level
	PersonID string        `json:"personId,omitempty"` // set for person level
	Label    string        `json:"label"`
	DataType string        `json:"dataType,omitempty"`
	Required bool          `json:"required"`
	Answer   string        `json:"answer,omitempty"`
}

// Answered reports whether the question already carries an answer.
func (q Question) Answered() bool { return q.Answer != "" }

// Answer submits a value for one question id.
type Answer struct {
	QuestionID string `json:"questionId"`
	Value      string `json:"value"`
}

// BookingSelector addresses a booking by id or partner reference.
type BookingSelector struct {
	ID        string `json:"id,omitempty"`
	Reference string `json:"reference,omitempty"`
}

// UnansweredRequired returns the required questions that still lack answers.
func (b *Booking) UnansweredRequired() []Question {
	var out []Question
	for _, q := range b.Questions {
		if q.Required && !q.Answered() {
			out = append(out, q)
		}
	}
	return out
}
