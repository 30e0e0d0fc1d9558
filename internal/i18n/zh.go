package i18n

var messagesZH = map[string]string{
	// ========== 词法 ==========
	ErrUnexpectedChar:      "意外的字符 '%c'",
	ErrUnterminatedString:  "未闭合的字符串字面量",
	ErrUnterminatedComment: "未闭合的块注释",
	ErrUnterminatedInterp:  "未闭合的字符串插值",

	// ========== 语法 ==========
	"expected_decl":                      "期望声明",
	"expected_identifier_in_decl":        "%s 声明中期望标识符",
	"extra_rbrace":                       "顶层多余的 '}'",
	"expected_type":                      "期望类型",
	"expected_expr":                      "期望表达式",
	"expected_pattern":                   "期望模式",
	"expected_identifier":                "期望标识符",
	"expected_lparen":                    "%s 中期望 '('",
	"expected_rparen":                    "%s 中期望 ')'",
	"expected_lbrace":                    "%s 中期望 '{'",
	"expected_rbrace":                    "%s 中期望 '}'",
	"expected_rbracket":                  "%s 中期望 ']'",
	"expected_rangle":                    "泛型参数列表需要以 '>' 结束",
	"expected_generic_param":             "泛型参数需要一个标识符作为名称",
	"expected_comma_or_rparen":           "期望 ',' 分隔符",
	"expected_stmt":                      "期望语句",
	"opening_brace":                      "与此处的 '{' 匹配",
	"opening_paren":                      "与此处的 '(' 匹配",
	"declaration_same_line_without_semi": "同一行的连续声明必须用 ';' 分隔",
	"statement_same_line_without_semi":   "同一行的连续语句必须用 ';' 分隔",
	"nesting_too_deep":                   "%s 嵌套过深",

	// ========== 属性 ==========
	"expected_attribute_name":         "期望属性名",
	"unknown_attribute":               "未知属性 '%s'",
	"type_attribute_applied_to_decl":  "该属性只能用于类型，不能用于声明",
	"decl_attribute_applied_to_type":  "该属性只能用于声明，不能用于类型",
	"duplicate_attribute":             "重复的属性",
	"cannot_combine_attribute":        "属性 '%s' 不能与该属性同时使用",
	"asmname_expected_equals":         "'asmname' 属性后期望 '='",
	"asmname_expected_string_literal": "'asmname' 属性中期望字符串字面量",
	"asmname_interpolated_string":     "'asmname' 名称不能是插值字符串",
	"cc_attribute_expected_lparen":    "'cc' 属性后期望 '('",
	"cc_attribute_expected_name":      "'cc' 属性中期望调用约定名称",
	"cc_attribute_expected_rparen":    "'cc' 属性的调用约定名称后期望 ')'",
	"cc_attribute_unknown_cc_name":    "未知的调用约定 '%s'",
	"only_allowed_in_low_level":       "属性 '%s' 只能在低级模式中使用",
	"import_attributes":               "import 声明指定了无效的属性",
	"typealias_attributes":            "typealias 声明指定了无效的属性",
	"operator_attributes":             "运算符声明指定了无效的属性",

	// ========== 声明 ==========
	"decl_not_static":                      "该声明不能标记为 'static'",
	"unimplemented_static_var":             "尚不支持静态变量%s",
	"static_func_decl_global_scope":        "静态方法只能在类型中声明",
	"subscript_static":                     "下标不能标记为 'static'",
	"decl_inner_scope":                     "该声明只能出现在文件作用域",
	"disallowed_type":                      "此处不允许声明类型",
	"decl_expected_module_name":            "import 声明中期望模块名",
	"expected_ident_type_in_extension":     "extension 声明中期望类型名",
	"expected_equal_in_typealias":          "typealias 声明中期望 '='",
	"expected_type_in_typealias":           "typealias 声明中期望类型",
	"associated_type_def":                  "关联类型 '%s' 不能有定义",
	"case_outside_of_switch":               "'case' 标签只能出现在 'switch' 语句中",
	"expected_identifier_after_case_comma": "枚举 'case' 声明的逗号后期望标识符",
	"expected_expr_enum_case_raw_value":    "'case' 中 '=' 后期望表达式",
	"nonliteral_enum_case_raw_value":       "枚举成员的原始值必须是字面量",
	"disallowed_enum_element":              "枚举 'case' 不能出现在枚举之外",
	"func_decl_nonglobal_operator":         "运算符函数只能在全局作用域声明",
	"func_decl_without_brace":              "函数声明体期望 '{'",
	"disallowed_func_def":                  "此处不允许函数体",
	"initializer_decl_wrong_scope":         "构造器只能在类型中声明",
	"destructor_decl_outside_class":        "析构器只能在类中声明",
	"destructor_parameter_nonempty_tuple":  "析构器不能有参数",
	"expected_lparen_destructor":           "'destructor' 后期望 '()'",
	"subscript_decl_wrong_scope":           "下标只能在类型中声明",
	"expected_lparen_subscript":            "下标参数期望 '('",
	"expected_arrow_subscript":             "下标元素类型前期望 '->'",
	"expected_type_subscript":              "期望下标元素类型",
	"subscript_without_get":                "下标声明必须有 getter",
	"disallowed_init":                      "此处不允许初始值",
	"disallowed_stored_var_decl":           "此处不允许存储实例变量",
	"disallowed_computed_var_decl":         "此处不允许计算变量",
	"disallowed_var_multiple_getset":       "声明多个变量的 'var' 不能有显式 getter/setter",
	"getset_nontrivial_pattern":            "getter/setter 只能为单个变量定义",
	"getset_missing_type":                  "计算属性必须有显式类型",
	"getset_init":                          "带 getter/setter 的变量不能有初始值",
	"getset_cannot_be_implied":             "带 getter/setter 的变量不能使用推断类型",
	"expected_init_value":                  "'=' 后期望初始值",
	"expected_colon_in_var":                "类型标注前期望 ':'",
	"expected_rparen_generic":              "泛型实参列表中期望 ')'",

	// ========== 运算符 ==========
	"expected_operator_name_after_operator": "运算符声明中期望运算符名",
	"custom_operator_postfix_exclaim":       "不能声明自定义的后缀 '!' 运算符",
	"expected_lbrace_after_operator":        "'operator' 声明的运算符名后期望 '{'",
	"unknown_operator_attribute":            "'%s' 不是有效的 %s 运算符属性",
	"expected_operator_attribute":           "'operator' 声明体中期望运算符属性标识符",
	"operator_associativity_redeclared":     "中缀运算符的 'associativity' 重复声明",
	"expected_infix_operator_associativity": "'operator' 声明体中 'associativity' 后期望标识符",
	"unknown_infix_operator_associativity":  "'%s' 不是有效的结合性，必须是 'none'、'left' 或 'right'",
	"operator_precedence_redeclared":        "中缀运算符的 'precedence' 重复声明",
	"expected_infix_operator_precedence":    "'operator' 声明体中 'precedence' 后期望整数字面量",
	"invalid_infix_operator_precedence":     "'precedence' 必须在 0 到 255 之间",
	"operator_decl_inner_scope":             "'operator' 只能在文件作用域声明",

	// ========== 访问器 ==========
	"duplicate_getset":          "%s 重复定义",
	"previous_getset":           "%s 的先前定义在此处",
	"expected_lbrace_getset":    "%s 定义期望以 '{' 开始",
	"expected_setname":          "期望 setter 参数名",
	"expected_rparen_setname":   "setter 参数名后期望 ')'",
	"expected_rbrace_in_getset": "变量 get/set 子句末尾期望 '}'",
	"var_set_without_get":       "有 setter 的变量必须同时有 getter",

	// ========== 命令行 ==========
	CLIParseSummary:   "%s: %d 个声明, %d 个错误, %d 个警告",
	CLINoErrors:       "没有错误",
	CLIWatching:       "正在监视 %s 的变更",
	CLIFileChanged:    "文件已变更: %s",
	CLIConfigLoaded:   "已加载配置 %s",
	CLIToolTooOld:     "kestrel %s 不满足项目要求 %s",
	CLIHelpDidYouMean: "你是否想输入 '%s'?",
	// ========== 修复建议 ==========
	FixItInsertMsg:  "插入 '%s'",
	FixItRemoveMsg:  "删除此处",
	FixItReplaceMsg: "替换为 '%s'",
}
