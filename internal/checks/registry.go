package checks

// DefaultRoster returns every check in registration order.  The order
// decides the order of results emitted at the same point of a run.
func DefaultRoster() []Descriptor {
	return []Descriptor{
		{
			Name:          "statistics",
			StatisticKeys: statisticKeys,
			AppliesTo:     always,
			New:           newStatistics,
		},
		{
			Name:        "duplicate_statement_id",
			ResultTypes: []string{"duplicate_statement_id"},
			AppliesTo:   always,
			New:         newDuplicateStatementIDs,
		},
		{
			Name:        "schema_version_consistency",
			ResultTypes: []string{"inconsistent_schema_version_used"},
			AppliesTo:   always,
			New:         newSchemaVersionConsistency,
		},
		{
			Name: "statement_references",
			ResultTypes: []string{
				"entity_statement_missing",
				"person_statement_missing",
				"entity_statement_out_of_order",
				"person_statement_out_of_order",
			},
			AppliesTo: flatOnly,
			New:       newStatementReferences,
		},
		{
			Name:        "record_references",
			ResultTypes: []string{"record_statement_missing", "record_statement_out_of_order"},
			AppliesTo:   recordOnly,
			New:         newRecordReferences,
		},
		{
			Name: "unused_statements",
			ResultTypes: []string{
				"entity_statement_not_used_in_ownership_or_control_statement",
				"person_statement_not_used_in_ownership_or_control_statement",
			},
			AppliesTo: flatOnly,
			New:       newUnusedStatements,
		},
		{
			Name:          "replaced_statements",
			StatisticKeys: []string{"count_replaces_statements_missing"},
			AppliesTo:     always,
			New:           newReplacedStatements,
		},
		{
			Name:         "entity_identifier_scheme",
			ResultTypes:  []string{"entity_identifier_scheme_not_known"},
			AppliesTo:    always,
			New:          newEntityIdentifierScheme,
			UsesPrefixes: true,
		},
		{
			Name: "person_identifier_scheme",
			ResultTypes: []string{
				"person_identifier_scheme_invalid_composition",
				"person_identifier_scheme_unknown_country",
			},
			AppliesTo: recordOnly,
			New:       newPersonIdentifierScheme,
		},
		{
			Name:        "address_types",
			ResultTypes: []string{"wrong_address_type_used", "alternative_address_with_no_other_address_types"},
			AppliesTo:   since("0.2"),
			New:         newAddressTypes,
		},
		{
			Name: "person_dates",
			ResultTypes: []string{
				"person_birth_year_too_early",
				"person_birth_year_too_late",
				"person_birth_date_in_future",
				"person_death_year_too_early",
				"person_death_year_too_late",
				"person_death_date_in_future",
				"person_death_date_before_birth_date",
				"person_death_date_too_far_from_birth_date",
			},
			AppliesTo: always,
			New:       newPersonDates,
		},
		{
			Name: "future_dates",
			ResultTypes: []string{
				"statement_date_is_in_future",
				"statement_source_retrieved_at_is_in_future",
				"statement_annotation_creation_date_is_in_future",
				"statement_publication_date_is_in_future",
			},
			AppliesTo: recordOnly,
			New:       newFutureDates,
		},
		{
			Name:        "pep_status_flag",
			ResultTypes: []string{"person_has_pep_details_but_pep_status_not_true"},
			AppliesTo:   flatBefore("0.3"),
			New:         newPepStatusFlag,
		},
		{
			Name: "pep_status_structured",
			ResultTypes: []string{
				"person_has_pep_details_with_missing_info_but_incorrect_pep_status",
				"person_has_pep_details_but_incorrect_pep_status",
			},
			AppliesTo: since("0.3"),
			New:       newPepStatusStructured,
		},
		{
			Name: "interest_shares",
			ResultTypes: []string{
				"min_and_exclusive_min",
				"max_and_exclusive_max",
				"exact_has_min_max",
				"not_exact_max_greater_than_min",
				"exact_max_equals_min",
			},
			AppliesTo: always,
			New:       newInterestShares,
		},
		{
			Name:        "beneficial_ownership_party",
			ResultTypes: []string{"statement_is_beneficial_ownership_or_control_but_no_person_specified"},
			AppliesTo:   flatSince("0.2"),
			New:         newBeneficialOwnershipParty,
		},
		{
			Name:        "entity_subtype",
			ResultTypes: []string{"entity_subtype_not_allowed_for_entity_type"},
			AppliesTo:   since("0.3"),
			New:         newEntitySubtype,
		},
		{
			Name: "public_listing",
			ResultTypes: []string{
				"has_public_listing_information_but_has_public_listing_is_false",
				"entity_security_listing_market_identifier_code_set_but_not_operating_market_identifier_code",
				"entity_security_listing_operating_market_identifier_code_set_but_not_market_identifier_code",
			},
			AppliesTo: since("0.3"),
			New:       newPublicListing,
		},
		{
			Name: "component_statements",
			ResultTypes: []string{
				"statement_is_component_but_not_used_in_component_statement_ids",
				"statement_is_component_but_is_after_use_in_component_statement_ids",
				"component_statement_id_not_found",
			},
			AppliesTo: flatSince("0.3"),
			New:       newComponentStatements,
		},
		{
			Name: "component_records",
			ResultTypes: []string{
				"record_is_component_but_not_used_in_component_records",
				"record_is_component_but_is_after_use_in_component_records",
				"component_record_not_found",
			},
			AppliesTo: recordOnly,
			New:       newComponentRecords,
		},
		{
			Name: "declaration_subject",
			ResultTypes: []string{
				"statement_declaration_subject_not_exist",
				"statement_declaration_subject_not_entity_or_person",
			},
			AppliesTo: recordOnly,
			New:       newDeclarationSubject,
		},
		{
			Name: "record_series",
			ResultTypes: []string{
				"statement_series_has_mismatched_record_types",
				"statement_series_has_more_than_one_new",
				"statement_series_new_not_first",
				"statement_series_has_more_than_one_closed",
				"statement_series_closed_not_last",
			},
			AppliesTo: recordOnly,
			New:       newRecordSeries,
		},
		{
			Name: "relationship_parties",
			ResultTypes: []string{
				"relationship_subject_not_entity",
				"relationship_interested_party_not_entity_or_person",
				"relationship_interests_beneficial_ownership_interested_party_not_person",
				"relationship_interests_subject_should_be_entity_nomination_arrangement",
				"relationship_interests_subject_should_be_entity_trust_arrangement",
			},
			AppliesTo: recordOnly,
			New:       newRelationshipParties,
		},
	}
}
