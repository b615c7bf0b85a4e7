package postgres

import "time"

type caseRecord struct {
	tableName struct{} `sql:"cases"`

	ID          string                 `sql:"id,pk"`
	CaseTypeID  string                 `sql:"case_type_id,notnull"`
	State       string                 `sql:"state"`
	Data        map[string]interface{} `sql:"data,type:jsonb,notnull"`
	LastEventID string                 `sql:"last_event_id"`
	CreatedAt   time.Time              `sql:"created_at,notnull,default:now()"`
	UpdatedAt   time.Time              `sql:"updated_at,notnull,default:now()"`
}

// caseEventRecord is the audit row written with every update. Its ID is
// derived from the case, event and event time, so a retried dispatch
// does not add a second row.
type caseEventRecord struct {
	tableName struct{} `sql:"case_events"`

	ID         string    `sql:"id,pk,type:uuid"`
	CaseID     string    `sql:"case_id,notnull"`
	EventID    string    `sql:"event_id,notnull"`
	State      string    `sql:"state"`
	EventTime  time.Time `sql:"event_time"`
	RecordedAt time.Time `sql:"recorded_at,notnull,default:now()"`
}
