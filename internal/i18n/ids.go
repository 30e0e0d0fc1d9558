package i18n

// 词法错误消息 ID
//
// 与 diag 包的诊断 ID 取值一致，词法器与解析器共用同一条消息。
const (
	ErrUnexpectedChar      = "unexpected_char"
	ErrUnterminatedString  = "unterminated_string"
	ErrUnterminatedComment = "unterminated_comment"
	ErrUnterminatedInterp  = "unterminated_interpolation"
)

// 命令行消息 ID
const (
	CLIParseSummary   = "cli_parse_summary"
	CLINoErrors       = "cli_no_errors"
	CLIWatching       = "cli_watching"
	CLIFileChanged    = "cli_file_changed"
	CLIConfigLoaded   = "cli_config_loaded"
	CLIToolTooOld     = "cli_tool_too_old"
	CLIHelpDidYouMean = "cli_did_you_mean"
)

// 修复建议消息 ID
const (
	FixItInsertMsg  = "fixit_insert"
	FixItRemoveMsg  = "fixit_remove"
	FixItReplaceMsg = "fixit_replace"
)
