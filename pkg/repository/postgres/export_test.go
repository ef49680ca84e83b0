package postgres

var BuildSelect = buildSelect
