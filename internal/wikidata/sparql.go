package wikidata

import (
	"strconv"
	"strings"

	"github.com/roach88/nlquery/internal/queryir"
)

// Well-known Wikidata identifiers.
const (
	PropInstanceOf       = "P31"
	PropPositionHeld     = "P39"
	PropPlaceOfBirth     = "P19"
	PropEmployer         = "P108"
	PropCauseOfDeath     = "P509"
	PropDateOfBirth      = "P569"
	PropStartTime        = "P580"
	PropEndTime          = "P582"
	PropPropertyForItems = "P1687"
	PropElevation        = "P2044"
	PropHeight           = "P2048"
	EntityHuman          = "Q5"
)

// Value node types reported for typed statement values.
const (
	TypeTimeValue     = "http://wikiba.se/ontology#TimeValue"
	TypeQuantityValue = "http://wikiba.se/ontology#QuantityValue"
)

const (
	xsdDateTime    = queryir.IRI("xsd:dateTime")
	iriDirectClaim = queryir.IRI("wikibase:directClaim")
	iriRDFType     = queryir.IRI("rdf:type")
	iriAltLabel    = queryir.IRI("skos:altLabel")
	iriLabel       = queryir.IRI("rdfs:label")
)

// Query variables.
const (
	varVal        = queryir.Var("val")
	varType       = queryir.Var("type")
	varProp       = queryir.Var("prop")
	varPropVal    = queryir.Var("propVal")
	varPos        = queryir.Var("pos")
	varValue      = queryir.Var("value")
	varStartDate  = queryir.Var("startDate")
	varEndDate    = queryir.Var("endDate")
	varInstance   = queryir.Var("instance")
	varPropEntity = queryir.Var("propEntity")
	varRelation   = queryir.Var("relation")
	varCount      = queryir.Var("count")
)

// scoped names the copy of v owned by the tuple at index i, so that two
// conditions in one question never share a binding.
func scoped(v queryir.Var, i int) queryir.Var {
	return v + queryir.Var(strconv.Itoa(i))
}

func entity(id string) queryir.IRI { return queryir.IRI("wd:" + id) }

func direct(pid string) queryir.IRI { return queryir.IRI("wdt:" + pid) }

func claim(pid string) queryir.IRI { return queryir.IRI("p:" + pid) }

func statement(pid string) queryir.IRI { return queryir.IRI("ps:" + pid) }

func statementValue(pid string) queryir.IRI { return queryir.IRI("psv:" + pid) }

func qualifier(pid string) queryir.IRI { return queryir.IRI("pq:" + pid) }

func triple(s, p, o queryir.Term) queryir.Triple {
	return queryir.Triple{S: s, P: p, O: o}
}

// propertyQuery selects the values of every property in pids (a
// comma-separated list) on subject, with the value type when the statement
// has a typed value node.
func propertyQuery(subjectID, pids, lang string) queryir.Select {
	var branches [][]queryir.Pattern
	for _, pid := range strings.Split(pids, ",") {
		pid = strings.TrimSpace(pid)
		if pid == "" {
			continue
		}
		branches = append(branches, []queryir.Pattern{
			triple(entity(subjectID), claim(pid), varProp),
			triple(varProp, statement(pid), varVal),
			queryir.Optional{Patterns: []queryir.Pattern{
				triple(varProp, statementValue(pid), varPropVal),
				triple(varPropVal, iriRDFType, varType),
			}},
		})
	}

	var where []queryir.Pattern
	if len(branches) == 1 {
		where = append(where, branches[0]...)
	} else {
		where = append(where, queryir.Union{Branches: branches})
	}
	where = append(where, queryir.LabelService{Language: lang})

	return queryir.Select{
		Projection: []queryir.Var{varVal.Label(), varType},
		Where:      where,
	}
}

// aliasQuery selects the alternative labels and the label of subject.
func aliasQuery(subjectID, lang string) queryir.Select {
	inLang := queryir.Filter{Expr: queryir.LangEquals{Var: varVal, Lang: lang}}
	return queryir.Select{
		Projection: []queryir.Var{varVal.Label()},
		Where: []queryir.Pattern{
			queryir.Union{Branches: [][]queryir.Pattern{
				{triple(entity(subjectID), iriAltLabel, varVal), inLang},
				{triple(entity(subjectID), iriLabel, varVal), inLang},
			}},
			queryir.LabelService{Language: lang},
		},
	}
}

// entityBase matches holders of position inst and instances of inst.
func entityBase(instID string) queryir.Pattern {
	return queryir.Union{Branches: [][]queryir.Pattern{
		{
			triple(varVal, claim(PropPositionHeld), varPos),
			triple(varPos, statement(PropPositionHeld), entity(instID)),
			triple(varVal, direct(PropInstanceOf), entity(EntityHuman)),
		},
		{
			triple(varVal, direct(PropInstanceOf), entity(instID)),
		},
	}}
}

// compareClause filters on a numeric property value. i is the tuple index.
func compareClause(i int, pid, op, value string) []queryir.Pattern {
	v := scoped(varValue, i)
	return []queryir.Pattern{
		triple(varVal, direct(pid), v),
		queryir.Filter{Expr: queryir.Compare{Left: v, Op: op, Right: queryir.Number(value)}},
	}
}

// tenureClause keeps position holders whose term spans the instant.
func tenureClause(instant string) []queryir.Pattern {
	at := queryir.Literal{Value: instant, Datatype: xsdDateTime}
	return []queryir.Pattern{
		triple(varPos, qualifier(PropStartTime), varStartDate),
		triple(varPos, qualifier(PropEndTime), varEndDate),
		queryir.Filter{Expr: queryir.And{Exprs: []queryir.Expr{
			queryir.Compare{Left: varStartDate, Op: queryir.OpLt, Right: at},
			queryir.Compare{Left: varEndDate, Op: queryir.OpGt, Right: at},
		}}},
	}
}

// employerClause keeps position holders whose position is qualified by the
// employer.
func employerClause(employerID string) []queryir.Pattern {
	return []queryir.Pattern{
		triple(varPos, qualifier(PropEmployer), entity(employerID)),
	}
}

// relationClause states a direct claim from the result to the value.
func relationClause(pid, valueID string) []queryir.Pattern {
	return []queryir.Pattern{
		triple(varVal, direct(pid), entity(valueID)),
	}
}

// guessedRelationClause links the result to the value through the property
// that the value's class designates for its items (P1687). "countries in
// Asia" becomes "countries whose continent is Asia". i is the tuple index.
func guessedRelationClause(i int, valueID string) []queryir.Pattern {
	instance := scoped(varInstance, i)
	propEntity := scoped(varPropEntity, i)
	relation := scoped(varRelation, i)
	return []queryir.Pattern{
		triple(entity(valueID), direct(PropInstanceOf), instance),
		triple(instance, direct(PropPropertyForItems), propEntity),
		triple(propEntity, iriDirectClaim, relation),
		triple(varVal, relation, entity(valueID)),
	}
}
