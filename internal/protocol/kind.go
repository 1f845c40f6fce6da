package protocol

import (
	"slices"
	"strconv"
)

// Kind identifies the command a payload belongs to. Values follow the
// debugger wire numbering and must not change.
type Kind int

const (
	KindThreadCreate                    Kind = 103
	KindThreadKill                      Kind = 104
	KindThreadSuspend                   Kind = 105
	KindThreadRun                       Kind = 106
	KindGetVariable                     Kind = 110
	KindEvaluateExpression              Kind = 113
	KindGetFrame                        Kind = 114
	KindWriteToConsole                  Kind = 116
	KindGetCompletions                  Kind = 120
	KindLoadSource                      Kind = 124
	KindSetNextStatement                Kind = 127
	KindExit                            Kind = 129
	KindGetFileContents                 Kind = 132
	KindEvaluateConsoleExpression       Kind = 134
	KindRunCustomOperation              Kind = 135
	KindGetBreakpointException          Kind = 136
	KindSendCurrExceptionTrace          Kind = 138
	KindSendCurrExceptionTraceProceeded Kind = 139
	KindShowConsole                     Kind = 142
	KindGetArray                        Kind = 143
	KindInputRequested                  Kind = 147
	KindGetDescription                  Kind = 148
	KindProcessCreated                  Kind = 149
	KindShowCythonWarning               Kind = 150
	KindLoadFullValue                   Kind = 151
	KindGetThreadStack                  Kind = 152
	KindGetExceptionDetails             Kind = 155
	KindThreadSuspendSingleNotification Kind = 157
	KindThreadResumeSingleNotification  Kind = 158
	KindGetNextStatementTargets         Kind = 201
	KindVersion                         Kind = 501
	KindReturn                          Kind = 502
	KindSetProtocol                     Kind = 503
	KindError                           Kind = 901
)

var kindNames = map[Kind]string{
	KindThreadCreate:                    "CMD_THREAD_CREATE",
	KindThreadKill:                      "CMD_THREAD_KILL",
	KindThreadSuspend:                   "CMD_THREAD_SUSPEND",
	KindThreadRun:                       "CMD_THREAD_RUN",
	KindGetVariable:                     "CMD_GET_VARIABLE",
	KindEvaluateExpression:              "CMD_EVALUATE_EXPRESSION",
	KindGetFrame:                        "CMD_GET_FRAME",
	KindWriteToConsole:                  "CMD_WRITE_TO_CONSOLE",
	KindGetCompletions:                  "CMD_GET_COMPLETIONS",
	KindLoadSource:                      "CMD_LOAD_SOURCE",
	KindSetNextStatement:                "CMD_SET_NEXT_STATEMENT",
	KindExit:                            "CMD_EXIT",
	KindGetFileContents:                 "CMD_GET_FILE_CONTENTS",
	KindEvaluateConsoleExpression:       "CMD_EVALUATE_CONSOLE_EXPRESSION",
	KindRunCustomOperation:              "CMD_RUN_CUSTOM_OPERATION",
	KindGetBreakpointException:          "CMD_GET_BREAKPOINT_EXCEPTION",
	KindSendCurrExceptionTrace:          "CMD_SEND_CURR_EXCEPTION_TRACE",
	KindSendCurrExceptionTraceProceeded: "CMD_SEND_CURR_EXCEPTION_TRACE_PROCEEDED",
	KindShowConsole:                     "CMD_SHOW_CONSOLE",
	KindGetArray:                        "CMD_GET_ARRAY",
	KindInputRequested:                  "CMD_INPUT_REQUESTED",
	KindGetDescription:                  "CMD_GET_DESCRIPTION",
	KindProcessCreated:                  "CMD_PROCESS_CREATED",
	KindShowCythonWarning:               "CMD_SHOW_CYTHON_WARNING",
	KindLoadFullValue:                   "CMD_LOAD_FULL_VALUE",
	KindGetThreadStack:                  "CMD_GET_THREAD_STACK",
	KindGetExceptionDetails:             "CMD_GET_EXCEPTION_DETAILS",
	KindThreadSuspendSingleNotification: "CMD_THREAD_SUSPEND_SINGLE_NOTIFICATION",
	KindThreadResumeSingleNotification:  "CMD_THREAD_RESUME_SINGLE_NOTIFICATION",
	KindGetNextStatementTargets:         "CMD_GET_NEXT_STATEMENT_TARGETS",
	KindVersion:                         "CMD_VERSION",
	KindReturn:                          "CMD_RETURN",
	KindSetProtocol:                     "CMD_SET_PROTOCOL",
	KindError:                           "CMD_ERROR",
}

// String returns the CMD_* name of the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "CMD_UNKNOWN(" + strconv.Itoa(int(k)) + ")"
}

// Known reports whether k is a kind this package can encode.
func (k Kind) Known() bool {
	_, ok := kindNames[k]
	return ok
}

// Kinds returns every known kind in ascending order.
func Kinds() []Kind {
	kinds := make([]Kind, 0, len(kindNames))
	for k := range kindNames {
		kinds = append(kinds, k)
	}
	slices.Sort(kinds)
	return kinds
}

// Code returns the decimal wire form of the kind.
func (k Kind) Code() string {
	return strconv.Itoa(int(k))
}
