package i18n

var messagesEN = map[string]string{
	// ========== Lexer ==========
	ErrUnexpectedChar:      "unexpected character '%c'",
	ErrUnterminatedString:  "unterminated string literal",
	ErrUnterminatedComment: "unterminated block comment",
	ErrUnterminatedInterp:  "unterminated string interpolation",

	// ========== Syntax ==========
	"expected_decl":                      "expected declaration",
	"expected_identifier_in_decl":        "expected identifier in %s declaration",
	"extra_rbrace":                       "extraneous '}' at top level",
	"expected_type":                      "expected type",
	"expected_expr":                      "expected expression",
	"expected_pattern":                   "expected pattern",
	"expected_identifier":                "expected identifier",
	"expected_lparen":                    "expected '(' in %s",
	"expected_rparen":                    "expected ')' in %s",
	"expected_lbrace":                    "expected '{' in %s",
	"expected_rbrace":                    "expected '}' in %s",
	"expected_rbracket":                  "expected ']' in %s",
	"expected_rangle":                    "expected '>' to complete generic parameter list",
	"expected_generic_param":             "expected an identifier to name generic parameter",
	"expected_comma_or_rparen":           "expected ',' separator",
	"expected_stmt":                      "expected statement",
	"opening_brace":                      "to match this opening '{'",
	"opening_paren":                      "to match this opening '('",
	"declaration_same_line_without_semi": "consecutive declarations on a line must be separated by ';'",
	"statement_same_line_without_semi":   "consecutive statements on a line must be separated by ';'",
	"nesting_too_deep":                   "%s nested too deeply",

	// ========== Attributes ==========
	"expected_attribute_name":         "expected an attribute name",
	"unknown_attribute":               "unknown attribute '%s'",
	"type_attribute_applied_to_decl":  "attribute can only be applied to types, not declarations",
	"decl_attribute_applied_to_type":  "attribute can only be applied to declarations, not types",
	"duplicate_attribute":             "duplicate attribute",
	"cannot_combine_attribute":        "attribute '%s' cannot be combined with this attribute",
	"asmname_expected_equals":         "expected '=' following 'asmname' attribute",
	"asmname_expected_string_literal": "expected string literal in 'asmname' attribute",
	"asmname_interpolated_string":     "'asmname' name cannot be an interpolated string literal",
	"cc_attribute_expected_lparen":    "expected '(' after 'cc' attribute",
	"cc_attribute_expected_name":      "expected calling convention name identifier in 'cc' attribute",
	"cc_attribute_expected_rparen":    "expected ')' after calling convention name for 'cc' attribute",
	"cc_attribute_unknown_cc_name":    "unknown calling convention name '%s'",
	"only_allowed_in_low_level":       "attribute '%s' only allowed in low-level mode",
	"import_attributes":               "invalid attributes specified for import",
	"typealias_attributes":            "invalid attributes specified for typealias",
	"operator_attributes":             "invalid attributes specified for operator declaration",

	// ========== Declarations ==========
	"decl_not_static":                      "declaration cannot be marked 'static'",
	"unimplemented_static_var":             "static variables not yet supported%s",
	"static_func_decl_global_scope":        "static methods may only be declared on a type",
	"subscript_static":                     "subscript cannot be marked 'static'",
	"decl_inner_scope":                     "declaration is only valid at file scope",
	"disallowed_type":                      "type not allowed here",
	"decl_expected_module_name":            "expected module name in import declaration",
	"expected_ident_type_in_extension":     "expected type name in extension declaration",
	"expected_equal_in_typealias":          "expected '=' in typealias declaration",
	"expected_type_in_typealias":           "expected type in typealias declaration",
	"associated_type_def":                  "associated type '%s' cannot have a definition",
	"case_outside_of_switch":               "'case' label can only appear inside a 'switch' statement",
	"expected_identifier_after_case_comma": "expected identifier after comma in enum 'case' declaration",
	"expected_expr_enum_case_raw_value":    "expected expression after '=' in 'case'",
	"nonliteral_enum_case_raw_value":       "raw value for enum case must be a literal",
	"disallowed_enum_element":              "enum 'case' is not allowed outside of an enum",
	"func_decl_nonglobal_operator":         "operators are only allowed at global scope",
	"func_decl_without_brace":              "expected '{' in body of function declaration",
	"disallowed_func_def":                  "function body not allowed here",
	"initializer_decl_wrong_scope":         "initializers may only be declared within a type",
	"destructor_decl_outside_class":        "destructors may only be declared within a class",
	"destructor_parameter_nonempty_tuple":  "destructor cannot have any parameters",
	"expected_lparen_destructor":           "expected '()' after 'destructor'",
	"subscript_decl_wrong_scope":           "subscript may only be declared within a type",
	"expected_lparen_subscript":            "expected '(' for subscript parameters",
	"expected_arrow_subscript":             "expected '->' for subscript element type",
	"expected_type_subscript":              "expected subscripting element type",
	"subscript_without_get":                "subscript declarations must have a getter",
	"disallowed_init":                      "initial value is not allowed here",
	"disallowed_stored_var_decl":           "stored instance variables are not allowed here",
	"disallowed_computed_var_decl":         "computed variables are not allowed here",
	"disallowed_var_multiple_getset":       "'var' declarations with multiple variables cannot have explicit getters/setters",
	"getset_nontrivial_pattern":            "getters/setters can only be defined for a single variable",
	"getset_missing_type":                  "computed property must have an explicit type",
	"getset_init":                          "variable with getter/setter cannot have an initial value",
	"getset_cannot_be_implied":             "variable with getter/setter cannot have an implied type",
	"expected_init_value":                  "expected initial value after '='",
	"expected_colon_in_var":                "expected ':' before type annotation",
	"expected_rparen_generic":              "expected ')' in generic argument list",

	// ========== Operators ==========
	"expected_operator_name_after_operator": "expected operator name in operator declaration",
	"custom_operator_postfix_exclaim":       "cannot declare a custom postfix '!' operator",
	"expected_lbrace_after_operator":        "expected '{' after operator name in 'operator' declaration",
	"unknown_operator_attribute":            "'%s' is not a valid %s operator attribute",
	"expected_operator_attribute":           "expected operator attribute identifier in 'operator' declaration body",
	"operator_associativity_redeclared":     "'associativity' for infix operator declared multiple times",
	"expected_infix_operator_associativity": "expected identifier after 'associativity' in 'operator' declaration body",
	"unknown_infix_operator_associativity":  "'%s' is not a valid infix operator associativity; must be 'none', 'left', or 'right'",
	"operator_precedence_redeclared":        "'precedence' for infix operator declared multiple times",
	"expected_infix_operator_precedence":    "expected integer literal after 'precedence' in 'operator' declaration body",
	"invalid_infix_operator_precedence":     "'precedence' must be in the range of 0 to 255",
	"operator_decl_inner_scope":             "'operator' may only be declared at file scope",

	// ========== Accessors ==========
	"duplicate_getset":          "duplicate definition of %s",
	"previous_getset":           "previous definition of %s is here",
	"expected_lbrace_getset":    "expected '{' to start %s definition",
	"expected_setname":          "expected the name of the setter value",
	"expected_rparen_setname":   "expected ')' after setter value name",
	"expected_rbrace_in_getset": "expected '}' at end of variable get/set clause",
	"var_set_without_get":       "variable with a setter must also have a getter",

	// ========== CLI ==========
	CLIParseSummary:   "%s: %d declaration(s), %d error(s), %d warning(s)",
	CLINoErrors:       "no errors",
	CLIWatching:       "watching %s for changes",
	CLIFileChanged:    "file changed: %s",
	CLIConfigLoaded:   "loaded config from %s",
	CLIToolTooOld:     "kestrel %s does not satisfy project requirement %s",
	CLIHelpDidYouMean: "did you mean '%s'?",
	// ========== Fix-it ==========
	FixItInsertMsg:  "insert '%s'",
	FixItRemoveMsg:  "remove this",
	FixItReplaceMsg: "replace with '%s'",
}
