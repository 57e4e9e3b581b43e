package ticket

import (
	"encoding/binary"
	"math"
	"strings"

	"github.com/atlasdesk/ticketmatch/internal/domain"
)

// Hash field names for stored ticket payloads. The vector lives in the same
// hash under fieldVector so one HSET covers payload and embedding.
const (
	fieldTicketID        = "ticket_id"
	fieldSource          = "source"
	fieldShortDesc       = "short_description"
	fieldDescription     = "description"
	fieldCategory        = "category"
	fieldSubcategory     = "subcategory"
	fieldStatus          = "status"
	fieldPriority        = "priority"
	fieldImpact          = "impact"
	fieldUrgency         = "urgency"
	fieldOpenedTime      = "opened_time"
	fieldClosedTime      = "closed_time"
	fieldResolvedTime    = "resolved_time"
	fieldAssignedTo      = "assigned_to"
	fieldAssignmentGroup = "assignment_group"
	fieldCompany         = "company"
	fieldLocation        = "location"
	fieldTags            = "tags"
	fieldVector          = "vector"
)

// Tags are joined on the ASCII unit separator so tags containing commas
// survive the round trip through the hash field.
const tagsSeparator = "\x1f"

// payloadFields is the RETURN list for searches: everything except the vector.
var payloadFields = []string{
	fieldTicketID, fieldSource, fieldShortDesc, fieldDescription,
	fieldCategory, fieldSubcategory, fieldStatus, fieldPriority,
	fieldImpact, fieldUrgency, fieldOpenedTime, fieldClosedTime,
	fieldResolvedTime, fieldAssignedTo, fieldAssignmentGroup,
	fieldCompany, fieldLocation, fieldTags,
}

// ticketToFields flattens a ticket into hash fields, skipping empty values.
func ticketToFields(t *domain.Ticket) map[string]string {
	fields := make(map[string]string, 18)
	put := func(k, v string) {
		if v != "" {
			fields[k] = v
		}
	}
	put(fieldTicketID, t.TicketID)
	put(fieldSource, t.Source)
	put(fieldShortDesc, t.ShortDescription)
	put(fieldDescription, t.Description)
	put(fieldCategory, t.Category)
	put(fieldSubcategory, t.Subcategory)
	put(fieldStatus, t.Status)
	put(fieldPriority, t.Priority)
	put(fieldImpact, t.Impact)
	put(fieldUrgency, t.Urgency)
	put(fieldOpenedTime, t.OpenedTime)
	put(fieldClosedTime, t.ClosedTime)
	put(fieldResolvedTime, t.ResolvedTime)
	put(fieldAssignedTo, t.AssignedTo)
	put(fieldAssignmentGroup, t.AssignmentGroup)
	put(fieldCompany, t.Company)
	put(fieldLocation, t.Location)
	if len(t.Tags) > 0 {
		put(fieldTags, strings.Join(t.Tags, tagsSeparator))
	}
	return fields
}

// fieldsToTicket projects stored hash fields back into a ticket. Absent
// fields stay zero-valued, never an error.
func fieldsToTicket(fields map[string]string) domain.Ticket {
	t := domain.Ticket{
		TicketID:         fields[fieldTicketID],
		Source:           fields[fieldSource],
		ShortDescription: fields[fieldShortDesc],
		Description:      fields[fieldDescription],
		Category:         fields[fieldCategory],
		Subcategory:      fields[fieldSubcategory],
		Status:           fields[fieldStatus],
		Priority:         fields[fieldPriority],
		Impact:           fields[fieldImpact],
		Urgency:          fields[fieldUrgency],
		OpenedTime:       fields[fieldOpenedTime],
		ClosedTime:       fields[fieldClosedTime],
		ResolvedTime:     fields[fieldResolvedTime],
		AssignedTo:       fields[fieldAssignedTo],
		AssignmentGroup:  fields[fieldAssignmentGroup],
		Company:          fields[fieldCompany],
		Location:         fields[fieldLocation],
	}
	if raw := fields[fieldTags]; raw != "" {
		t.Tags = strings.Split(raw, tagsSeparator)
	}
	return t
}

// vectorToBytes serializes []float32 into the binary layout FT.SEARCH expects.
func vectorToBytes(v []float32) string {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return string(buf)
}
