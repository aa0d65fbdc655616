package model

// Connector joins a clause to the clauses before it.
type Connector string

const ConnectorAnd Connector = "AND"

// Operator is the comparison a clause applies.
type Operator string

const (
	OpEquals Operator = "="
	OpIsNull Operator = "IS NULL"
)

// ValueType tells the store how to bind a clause value.
type ValueType string

const (
	ValueInt  ValueType = "int"
	ValueText ValueType = "text"
)

// Field names a logical issue attribute a clause may constrain.
type Field string

const (
	FieldDisabled         Field = "disabled"
	FieldIsClosed         Field = "is_closed"
	FieldAssignedUserID   Field = "assigned_user_id"
	FieldOwnerUsername    Field = "owner_username"
	FieldCreatorUsername  Field = "creator_username"
	FieldAssignedUsername Field = "assigned_username"
)

// IsValid checks whether the field is one the issue store knows about.
func (f Field) IsValid() bool {
	switch f {
	case FieldDisabled, FieldIsClosed, FieldAssignedUserID,
		FieldOwnerUsername, FieldCreatorUsername, FieldAssignedUsername:
		return true
	}
	return false
}

// QueryClause is a single predicate over issue fields. A list of clauses is
// combined with AND in list order. Value is nil exactly when Operator is
// OpIsNull.
type QueryClause struct {
	Connector Connector `json:"connector"`
	Field     Field     `json:"field"`
	Operator  Operator  `json:"operator"`
	Value     *string   `json:"value"`
	ValueType ValueType `json:"value_type"`
}

// Equals returns an AND clause comparing field to value.
func Equals(field Field, value string, vt ValueType) QueryClause {
	return QueryClause{
		Connector: ConnectorAnd,
		Field:     field,
		Operator:  OpEquals,
		Value:     &value,
		ValueType: vt,
	}
}

// IsNull returns an AND clause matching records where field has no value.
func IsNull(field Field, vt ValueType) QueryClause {
	return QueryClause{
		Connector: ConnectorAnd,
		Field:     field,
		Operator:  OpIsNull,
		ValueType: vt,
	}
}
