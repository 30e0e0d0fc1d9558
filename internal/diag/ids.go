// Package diag 提供 Kestrel 解析器的诊断系统
package diag

// ============================================================================
// 错误级别
// ============================================================================

// Level 错误级别
type Level int

const (
	LevelError   Level = iota // 错误
	LevelWarning              // 警告
	LevelNote                 // 提示
	LevelHelp                 // 帮助
)

func (l Level) String() string {
	switch l {
	case LevelError:
		return "error"
	case LevelWarning:
		return "warning"
	case LevelNote:
		return "note"
	case LevelHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ============================================================================
// 诊断 ID
// ============================================================================
//
// ID 同时是 i18n 消息表的键。错误码分段：
//   E0001-E0099: 词法与通用语法错误
//   E0100-E0199: 属性错误
//   E0200-E0299: 声明错误
//   E0300-E0399: 运算符声明错误
//   E0400-E0499: get/set 访问器错误
//   W0001-:      警告
//
// ============================================================================

// ID 诊断类型
type ID string

// 词法与通用语法
const (
	UnexpectedChar            ID = "unexpected_char"
	UnterminatedString        ID = "unterminated_string"
	UnterminatedComment       ID = "unterminated_comment"
	UnterminatedInterpolation ID = "unterminated_interpolation"
	ExpectedDecl              ID = "expected_decl"
	ExpectedIdentifierInDecl  ID = "expected_identifier_in_decl"
	ExtraRBrace               ID = "extra_rbrace"
	ExpectedType              ID = "expected_type"
	ExpectedExpr              ID = "expected_expr"
	ExpectedPattern           ID = "expected_pattern"
	ExpectedIdentifier        ID = "expected_identifier"
	ExpectedLParen            ID = "expected_lparen"
	ExpectedRParen            ID = "expected_rparen"
	ExpectedLBrace            ID = "expected_lbrace"
	ExpectedRBrace            ID = "expected_rbrace"
	ExpectedRBracket          ID = "expected_rbracket"
	ExpectedRAngle            ID = "expected_rangle"
	ExpectedGenericParam      ID = "expected_generic_param"
	ExpectedCommaOrRParen     ID = "expected_comma_or_rparen"
	ExpectedStmt              ID = "expected_stmt"
	OpeningBraceNote          ID = "opening_brace"
	OpeningParenNote          ID = "opening_paren"
	SameLineWithoutSemi       ID = "declaration_same_line_without_semi"
	StmtSameLineWithoutSemi   ID = "statement_same_line_without_semi"
	NestingTooDeep            ID = "nesting_too_deep"
)

// 属性
const (
	ExpectedAttributeName      ID = "expected_attribute_name"
	UnknownAttribute           ID = "unknown_attribute"
	TypeAttributeAppliedToDecl ID = "type_attribute_applied_to_decl"
	DeclAttributeAppliedToType ID = "decl_attribute_applied_to_type"
	DuplicateAttribute         ID = "duplicate_attribute"
	CannotCombineAttribute     ID = "cannot_combine_attribute"
	AsmnameExpectedEquals      ID = "asmname_expected_equals"
	AsmnameExpectedString      ID = "asmname_expected_string_literal"
	AsmnameInterpolatedString  ID = "asmname_interpolated_string"
	CCExpectedLParen           ID = "cc_attribute_expected_lparen"
	CCExpectedName             ID = "cc_attribute_expected_name"
	CCExpectedRParen           ID = "cc_attribute_expected_rparen"
	CCUnknownName              ID = "cc_attribute_unknown_cc_name"
	OnlyAllowedInLowLevel      ID = "only_allowed_in_low_level"
	ImportAttributes           ID = "import_attributes"
	TypeAliasAttributes        ID = "typealias_attributes"
	OperatorAttributes         ID = "operator_attributes"
)

// 声明
const (
	DeclNotStatic                ID = "decl_not_static"
	UnimplementedStaticVar       ID = "unimplemented_static_var"
	StaticFuncDeclGlobalScope    ID = "static_func_decl_global_scope"
	SubscriptStatic              ID = "subscript_static"
	DeclInnerScope               ID = "decl_inner_scope"
	DisallowedType               ID = "disallowed_type"
	DeclExpectedModuleName       ID = "decl_expected_module_name"
	ExpectedIdentTypeInExtension ID = "expected_ident_type_in_extension"
	ExpectedEqualInTypeAlias     ID = "expected_equal_in_typealias"
	ExpectedTypeInTypeAlias      ID = "expected_type_in_typealias"
	AssociatedTypeDef            ID = "associated_type_def"
	CaseOutsideOfSwitch          ID = "case_outside_of_switch"
	ExpectedIdentAfterCaseComma  ID = "expected_identifier_after_case_comma"
	ExpectedExprEnumCaseRawValue ID = "expected_expr_enum_case_raw_value"
	NonliteralEnumCaseRawValue   ID = "nonliteral_enum_case_raw_value"
	DisallowedEnumElement        ID = "disallowed_enum_element"
	FuncDeclNonglobalOperator    ID = "func_decl_nonglobal_operator"
	FuncDeclWithoutBrace         ID = "func_decl_without_brace"
	DisallowedFuncDef            ID = "disallowed_func_def"
	InitializerDeclWrongScope    ID = "initializer_decl_wrong_scope"
	DestructorDeclOutsideClass   ID = "destructor_decl_outside_class"
	DestructorParamNonemptyTuple ID = "destructor_parameter_nonempty_tuple"
	ExpectedLParenDestructor     ID = "expected_lparen_destructor"
	SubscriptDeclWrongScope      ID = "subscript_decl_wrong_scope"
	ExpectedLParenSubscript      ID = "expected_lparen_subscript"
	ExpectedArrowSubscript       ID = "expected_arrow_subscript"
	ExpectedTypeSubscript        ID = "expected_type_subscript"
	SubscriptWithoutGet          ID = "subscript_without_get"
	DisallowedInit               ID = "disallowed_init"
	DisallowedStoredVarDecl      ID = "disallowed_stored_var_decl"
	DisallowedComputedVarDecl    ID = "disallowed_computed_var_decl"
	DisallowedVarMultipleGetSet  ID = "disallowed_var_multiple_getset"
	GetSetNontrivialPattern      ID = "getset_nontrivial_pattern"
	GetSetMissingType            ID = "getset_missing_type"
	GetSetInit                   ID = "getset_init"
	GetSetCannotBeImplied        ID = "getset_cannot_be_implied"
	ExpectedInitValue            ID = "expected_init_value"
	ExpectedColonInVar           ID = "expected_colon_in_var"
	ExpectedRParenGeneric        ID = "expected_rparen_generic"
)

// 运算符声明
const (
	ExpectedOperatorName         ID = "expected_operator_name_after_operator"
	CustomOperatorPostfixExclaim ID = "custom_operator_postfix_exclaim"
	ExpectedLBraceAfterOperator  ID = "expected_lbrace_after_operator"
	UnknownOperatorAttribute     ID = "unknown_operator_attribute"
	ExpectedOperatorAttribute    ID = "expected_operator_attribute"
	OperatorAssociativityRedecl  ID = "operator_associativity_redeclared"
	ExpectedInfixAssociativity   ID = "expected_infix_operator_associativity"
	UnknownInfixAssociativity    ID = "unknown_infix_operator_associativity"
	OperatorPrecedenceRedecl     ID = "operator_precedence_redeclared"
	ExpectedInfixPrecedence      ID = "expected_infix_operator_precedence"
	InvalidInfixPrecedence       ID = "invalid_infix_operator_precedence"
	OperatorDeclInnerScope       ID = "operator_decl_inner_scope"
)

// get/set 访问器
const (
	DuplicateGetSet        ID = "duplicate_getset"
	PreviousGetSet         ID = "previous_getset"
	ExpectedLBraceGetSet   ID = "expected_lbrace_getset"
	ExpectedSetName        ID = "expected_setname"
	ExpectedRParenSetName  ID = "expected_rparen_setname"
	ExpectedRBraceInGetSet ID = "expected_rbrace_in_getset"
	VarSetWithoutGet       ID = "var_set_without_get"
)

// Info 诊断的静态信息
type Info struct {
	Level Level  // 级别
	Code  string // 错误码
}

var infos = map[ID]Info{
	UnexpectedChar:            {LevelError, "E0001"},
	UnterminatedString:        {LevelError, "E0002"},
	UnterminatedComment:       {LevelError, "E0003"},
	UnterminatedInterpolation: {LevelError, "E0004"},
	ExpectedDecl:              {LevelError, "E0005"},
	ExpectedIdentifierInDecl:  {LevelError, "E0006"},
	ExtraRBrace:               {LevelError, "E0007"},
	ExpectedType:              {LevelError, "E0008"},
	ExpectedExpr:              {LevelError, "E0009"},
	ExpectedPattern:           {LevelError, "E0010"},
	ExpectedIdentifier:        {LevelError, "E0011"},
	ExpectedLParen:            {LevelError, "E0012"},
	ExpectedRParen:            {LevelError, "E0013"},
	ExpectedLBrace:            {LevelError, "E0014"},
	ExpectedRBrace:            {LevelError, "E0015"},
	ExpectedRBracket:          {LevelError, "E0016"},
	ExpectedRAngle:            {LevelError, "E0017"},
	ExpectedGenericParam:      {LevelError, "E0018"},
	ExpectedCommaOrRParen:     {LevelError, "E0019"},
	ExpectedStmt:              {LevelError, "E0020"},
	OpeningBraceNote:          {LevelNote, "N0001"},
	OpeningParenNote:          {LevelNote, "N0002"},
	SameLineWithoutSemi:       {LevelWarning, "W0001"},
	StmtSameLineWithoutSemi:   {LevelError, "E0021"},
	NestingTooDeep:            {LevelError, "E0022"},

	ExpectedAttributeName:      {LevelError, "E0100"},
	UnknownAttribute:           {LevelError, "E0101"},
	TypeAttributeAppliedToDecl: {LevelError, "E0102"},
	DeclAttributeAppliedToType: {LevelError, "E0103"},
	DuplicateAttribute:         {LevelError, "E0104"},
	CannotCombineAttribute:     {LevelError, "E0105"},
	AsmnameExpectedEquals:      {LevelError, "E0106"},
	AsmnameExpectedString:      {LevelError, "E0107"},
	AsmnameInterpolatedString:  {LevelError, "E0108"},
	CCExpectedLParen:           {LevelError, "E0109"},
	CCExpectedName:             {LevelError, "E0110"},
	CCExpectedRParen:           {LevelError, "E0111"},
	CCUnknownName:              {LevelError, "E0112"},
	OnlyAllowedInLowLevel:      {LevelError, "E0113"},
	ImportAttributes:           {LevelError, "E0114"},
	TypeAliasAttributes:        {LevelError, "E0115"},
	OperatorAttributes:         {LevelError, "E0116"},

	DeclNotStatic:                {LevelError, "E0200"},
	UnimplementedStaticVar:       {LevelError, "E0201"},
	StaticFuncDeclGlobalScope:    {LevelError, "E0202"},
	SubscriptStatic:              {LevelError, "E0203"},
	DeclInnerScope:               {LevelError, "E0204"},
	DisallowedType:               {LevelError, "E0205"},
	DeclExpectedModuleName:       {LevelError, "E0206"},
	ExpectedIdentTypeInExtension: {LevelError, "E0207"},
	ExpectedEqualInTypeAlias:     {LevelError, "E0208"},
	ExpectedTypeInTypeAlias:      {LevelError, "E0209"},
	AssociatedTypeDef:            {LevelError, "E0210"},
	CaseOutsideOfSwitch:          {LevelError, "E0211"},
	ExpectedIdentAfterCaseComma:  {LevelError, "E0212"},
	ExpectedExprEnumCaseRawValue: {LevelError, "E0213"},
	NonliteralEnumCaseRawValue:   {LevelError, "E0214"},
	DisallowedEnumElement:        {LevelError, "E0215"},
	FuncDeclNonglobalOperator:    {LevelError, "E0216"},
	FuncDeclWithoutBrace:         {LevelError, "E0217"},
	DisallowedFuncDef:            {LevelError, "E0218"},
	InitializerDeclWrongScope:    {LevelError, "E0219"},
	DestructorDeclOutsideClass:   {LevelError, "E0220"},
	DestructorParamNonemptyTuple: {LevelError, "E0221"},
	ExpectedLParenDestructor:     {LevelError, "E0222"},
	SubscriptDeclWrongScope:      {LevelError, "E0223"},
	ExpectedLParenSubscript:      {LevelError, "E0224"},
	ExpectedArrowSubscript:       {LevelError, "E0225"},
	ExpectedTypeSubscript:        {LevelError, "E0226"},
	SubscriptWithoutGet:          {LevelError, "E0227"},
	DisallowedInit:               {LevelError, "E0228"},
	DisallowedStoredVarDecl:      {LevelError, "E0229"},
	DisallowedComputedVarDecl:    {LevelError, "E0230"},
	DisallowedVarMultipleGetSet:  {LevelError, "E0231"},
	GetSetNontrivialPattern:      {LevelError, "E0232"},
	GetSetMissingType:            {LevelError, "E0233"},
	GetSetInit:                   {LevelError, "E0234"},
	GetSetCannotBeImplied:        {LevelError, "E0235"},
	ExpectedInitValue:            {LevelError, "E0236"},
	ExpectedColonInVar:           {LevelError, "E0237"},
	ExpectedRParenGeneric:        {LevelError, "E0238"},

	ExpectedOperatorName:         {LevelError, "E0300"},
	CustomOperatorPostfixExclaim: {LevelError, "E0301"},
	ExpectedLBraceAfterOperator:  {LevelError, "E0302"},
	UnknownOperatorAttribute:     {LevelError, "E0303"},
	ExpectedOperatorAttribute:    {LevelError, "E0304"},
	OperatorAssociativityRedecl:  {LevelError, "E0305"},
	ExpectedInfixAssociativity:   {LevelError, "E0306"},
	UnknownInfixAssociativity:    {LevelError, "E0307"},
	OperatorPrecedenceRedecl:     {LevelError, "E0308"},
	ExpectedInfixPrecedence:      {LevelError, "E0309"},
	InvalidInfixPrecedence:       {LevelError, "E0310"},
	OperatorDeclInnerScope:       {LevelError, "E0311"},

	DuplicateGetSet:        {LevelError, "E0400"},
	PreviousGetSet:         {LevelNote, "N0400"},
	ExpectedLBraceGetSet:   {LevelError, "E0401"},
	ExpectedSetName:        {LevelError, "E0402"},
	ExpectedRParenSetName:  {LevelError, "E0403"},
	ExpectedRBraceInGetSet: {LevelError, "E0404"},
	VarSetWithoutGet:       {LevelError, "E0405"},
}

// Lookup 返回诊断 ID 的静态信息
func Lookup(id ID) (Info, bool) {
	info, ok := infos[id]
	return info, ok
}

// LevelOf 返回诊断的级别，未知 ID 按错误处理
func LevelOf(id ID) Level {
	if info, ok := infos[id]; ok {
		return info.Level
	}
	return LevelError
}

// CodeOf 返回诊断的错误码
func CodeOf(id ID) string {
	if info, ok := infos[id]; ok {
		return info.Code
	}
	return "E0000"
}
