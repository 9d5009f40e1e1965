package mcpserver

// RecordFormatContract describes the record format used by export and import
// and the fields add_meeting expects.
const RecordFormatContract = `# Tracker Record Format

A meeting is exchanged as a flat record. Every key is required.

| Key           | Type   | Notes                                                  |
|---------------|--------|--------------------------------------------------------|
| id            | string | UUID, unique within the store                          |
| name          | string | contact name                                           |
| company       | string |                                                        |
| position      | string | contact's role                                         |
| phoneNumber   | string | any notation; digits are extracted for display/dialing |
| date          | string | RFC 3339 timestamp                                     |
| purpose       | string | one of the purpose labels below                        |
| notes         | string | free text, may be empty                                |

## Purpose labels

Networking, Job Inquiry, Advice, Collaboration, Other

Labels are case-sensitive. Any other value is rejected.

## Tabs

- upcoming: meetings whose date is now or later
- history: meetings whose date is before now

Tabs are evaluated against the clock at the time of the call.

## Adding meetings

add_meeting takes name, company, position, phone_number, purpose, optional date
(RFC 3339, defaults to now) and optional notes. name, company, position and
phone_number must be non-empty.

## Example

` + "```" + `json
{
  "id": "2f0c6a9e-3d1b-4c55-8f6e-0b7f4f1f2a10",
  "name": "Alice Smith",
  "company": "Acme Inc.",
  "position": "Software Engineer",
  "phoneNumber": "7058134343",
  "date": "2025-02-03T13:00:00Z",
  "purpose": "Networking",
  "notes": "Had a great conversation about SwiftUI."
}
` + "```" + `
`
