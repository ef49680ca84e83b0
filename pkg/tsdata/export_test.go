package tsdata

var Reindent = reindent
