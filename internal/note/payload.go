package note

import (
	"net/http"

	"github.com/pkg/errors"

	"github.com/SergeyParamoshkin/dealnotes/internal/model"
)

// NoteRequest is the request payload for creating a DealNote.
type NoteRequest struct {
	*model.CreateDealNoteInput

	// Server-owned fields a client may try to send; they are dropped in Bind.
	ProtectedID     string `json:"id"`
	ProtectedDealID string `json:"dealId"`
}

func (n *NoteRequest) Bind(r *http.Request) error {
	// n.CreateDealNoteInput is nil if no note fields are sent in the request.
	if n.CreateDealNoteInput == nil {
		return errors.New("missing required note fields")
	}
	n.ProtectedID = ""
	n.ProtectedDealID = ""

	return n.Validate()
}

type NoteResponse struct {
	Note *model.DealNote `json:"note"`
}

func (rd *NoteResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

type NoteListResponse struct {
	*model.ListDealNotesResult
}

func NewNoteListResponse(notes []*model.DealNote) *NoteListResponse {
	if notes == nil {
		notes = []*model.DealNote{}
	}

	return &NoteListResponse{&model.ListDealNotesResult{Notes: notes, TotalCount: len(notes)}}
}

func (rd *NoteListResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}
