package errors

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// errorDomain tags gRPC ErrorInfo details produced by WrapGRPC.
const errorDomain = "ebxnode"

type Error struct {
	code       ERR
	message    string
	wrappedErr error
	data       ErrDataI
}

type Interface interface {
	Error() string
	Is(target error) bool
	As(target interface{}) bool
	Unwrap() error

	Code() ERR
	Message() string
	WrappedErr() error
	Data() ErrDataI
}

func (e *Error) Error() string {
	// Error() can be called on wrapped errors, which can be nil, for example predefined errors
	if e == nil {
		return "<nil>"
	}

	dataMsg := ""
	if e.data != nil {
		dataMsg = e.data.Error()
	}

	if e.wrappedErr == nil {
		if dataMsg == "" {
			return fmt.Sprintf("Error: %s (error code: %d), Message: %v", e.code.Enum(), e.code, e.message)
		}

		return fmt.Sprintf("Error: %s (error code: %d), Message: %v, Data: %s", e.code.Enum(), e.code, e.message, dataMsg)
	}

	if dataMsg == "" {
		return fmt.Sprintf("Error: %s (error code: %d), Message: %v, Wrapped err: %v", e.code.Enum(), e.code, e.message, e.wrappedErr)
	}

	return fmt.Sprintf("Error: %s (error code: %d), Message: %v, Wrapped err: %v, Data: %s", e.code.Enum(), e.code, e.message, e.wrappedErr, dataMsg)
}

// Is reports whether error codes match anywhere in the wrap chain.
func (e *Error) Is(target error) bool {
	if e == nil {
		return false
	}

	targetError, ok := target.(*Error)
	if !ok {
		return strings.Contains(e.Error(), target.Error())
	}

	if e.code == targetError.code {
		return true
	}

	if e.wrappedErr == nil {
		return false
	}

	if ue, ok := e.wrappedErr.(*Error); ok {
		return ue.Is(target)
	}

	return false
}

func (e *Error) As(target interface{}) bool {
	if e == nil {
		return false
	}

	if targetErr, ok := target.(**Error); ok {
		*targetErr = e
		return true
	}

	// check if Data matches the target type
	if e.data != nil {
		if data, ok := e.data.(error); ok && errors.As(data, target) {
			return true
		}
	}

	if e.wrappedErr != nil {
		if reflect.ValueOf(e.wrappedErr).Kind() == reflect.Ptr && reflect.ValueOf(e.wrappedErr).IsNil() {
			return false
		}

		return errors.As(e.wrappedErr, target)
	}

	return false
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}

	return e.wrappedErr
}

func (e *Error) Code() ERR {
	if e == nil {
		return ERR_UNKNOWN
	}

	return e.code
}

func (e *Error) Message() string {
	if e == nil {
		return ""
	}

	return e.message
}

func (e *Error) WrappedErr() error {
	if e == nil {
		return nil
	}

	return e.wrappedErr
}

func (e *Error) Data() ErrDataI {
	if e == nil {
		return nil
	}

	return e.data
}

func (e *Error) SetData(key string, value interface{}) {
	if e.data == nil {
		e.data = &ErrData{}
	}

	e.data.SetData(key, value)
}

func (e *Error) GetData(key string) interface{} {
	if e.data == nil {
		return nil
	}

	return e.data.GetData(key)
}

// New creates a coded error. If the last param is an error it becomes the
// wrapped error; the remaining params format the message.
func New(code ERR, message string, params ...interface{}) *Error {
	var wErr error

	if len(params) > 0 {
		lastParam := params[len(params)-1]

		switch err := lastParam.(type) {
		case *Error:
			wErr = err
			params = params[:len(params)-1]
		case error:
			wErr = &Error{code: ERR_ERROR, message: err.Error(), wrappedErr: err}
			params = params[:len(params)-1]
		}
	}

	if len(params) > 0 {
		//nolint:forbidigo
		message = fmt.Errorf(message, params...).Error()
	}

	if _, ok := ERR_name[int32(code)]; !ok {
		return &Error{
			code:       code,
			message:    "invalid error code",
			wrappedErr: wErr,
		}
	}

	return &Error{
		code:       code,
		message:    message,
		wrappedErr: wErr,
	}
}

// WrapGRPC converts an error into a gRPC status error. Every *Error in the
// wrap chain becomes one ErrorInfo detail, outermost first.
func WrapGRPC(err error) error {
	if err == nil {
		return nil
	}

	var castedErr *Error
	if !errors.As(err, &castedErr) {
		castedErr = New(ERR_ERROR, err.Error())
	}

	if castedErr.wrappedErr != nil {
		if _, ok := status.FromError(castedErr.wrappedErr); ok {
			return err
		}
	}

	st := status.New(ErrorCodeToGRPCCode(castedErr.code), castedErr.message)

	details := make([]*errdetails.ErrorInfo, 0, 4)

	var current error = castedErr
	for current != nil {
		tErr, ok := current.(*Error)
		if !ok {
			details = append(details, errorInfo(ERR_ERROR, current.Error(), nil))
			break
		}

		details = append(details, errorInfo(tErr.code, tErr.message, tErr.data))
		current = tErr.wrappedErr
	}

	for _, d := range details {
		withDetails, detailsErr := st.WithDetails(d)
		if detailsErr != nil {
			return &Error{
				code:       ERR_ERROR,
				message:    "error adding details to the error's gRPC status",
				wrappedErr: err,
			}
		}

		st = withDetails
	}

	return st.Err()
}

func errorInfo(code ERR, message string, data ErrDataI) *errdetails.ErrorInfo {
	metadata := map[string]string{
		"code":    strconv.Itoa(int(code)),
		"message": message,
	}

	if data != nil {
		metadata["data"] = string(data.EncodeErrorData())
	}

	return &errdetails.ErrorInfo{
		Reason:   code.String(),
		Domain:   errorDomain,
		Metadata: metadata,
	}
}

// UnwrapGRPC rebuilds the *Error chain from a gRPC status error.
func UnwrapGRPC(err error) *Error {
	if err == nil {
		return nil
	}

	st, ok := status.FromError(err)
	if !ok {
		return &Error{
			code:       ERR_ERROR,
			message:    "error unwrapping gRPC details",
			wrappedErr: err,
		}
	}

	infos := make([]*errdetails.ErrorInfo, 0, len(st.Details()))

	for _, detail := range st.Details() {
		if info, ok := detail.(*errdetails.ErrorInfo); ok && info.GetDomain() == errorDomain {
			infos = append(infos, info)
		}
	}

	if len(infos) == 0 {
		return &Error{
			code:    GRPCCodeToErrorCode(st.Code()),
			message: st.Message(),
		}
	}

	var prevErr *Error

	for i := len(infos) - 1; i >= 0; i-- {
		metadata := infos[i].GetMetadata()

		code, convErr := strconv.Atoi(metadata["code"])
		if convErr != nil {
			code = int(ERR_ERROR)
		}

		currErr := &Error{
			code:    ERR(code),
			message: metadata["message"],
		}

		if raw, ok := metadata["data"]; ok {
			if data, dataErr := DecodeErrorData([]byte(raw)); dataErr == nil {
				currErr.data = data
			}
		}

		if prevErr != nil {
			currErr.wrappedErr = prevErr
		}

		prevErr = currErr
	}

	return prevErr
}

// ErrorCodeToGRPCCode maps application error codes to gRPC status codes.
func ErrorCodeToGRPCCode(code ERR) codes.Code {
	switch code {
	case ERR_UNKNOWN:
		return codes.Unknown
	case ERR_INVALID_ARGUMENT:
		return codes.InvalidArgument
	case ERR_NOT_FOUND, ERR_TX_NOT_FOUND:
		return codes.NotFound
	case ERR_TX_ALREADY_EXISTS:
		return codes.AlreadyExists
	case ERR_CONTEXT_CANCELED:
		return codes.Canceled
	case ERR_BLOCK_INVALID, ERR_BLOCK_HEADER_INVALID, ERR_BLOCK_MERKLE_ROOT, ERR_BLOCK_COINBASE_INVALID,
		ERR_TX_INVALID, ERR_TX_INVALID_DOUBLE_SPEND, ERR_TX_INVALID_SCRIPT, ERR_TX_INVALID_SIGNATURE, ERR_LOCKTIME:
		return codes.FailedPrecondition
	case ERR_STORAGE_UNAVAILABLE:
		return codes.Unavailable
	default:
		return codes.Internal
	}
}

// GRPCCodeToErrorCode is the inverse of ErrorCodeToGRPCCode for statuses without details.
func GRPCCodeToErrorCode(code codes.Code) ERR {
	switch code {
	case codes.InvalidArgument:
		return ERR_INVALID_ARGUMENT
	case codes.NotFound:
		return ERR_NOT_FOUND
	case codes.Canceled:
		return ERR_CONTEXT_CANCELED
	case codes.Unavailable:
		return ERR_STORAGE_UNAVAILABLE
	case codes.Unknown:
		return ERR_UNKNOWN
	default:
		return ERR_ERROR
	}
}

func Join(errs ...error) error {
	var messages []string

	for _, err := range errs {
		if err != nil {
			messages = append(messages, err.Error())
		}
	}

	if len(messages) == 0 {
		return nil
	}

	return errors.New(strings.Join(messages, ", "))
}

func Is(err, target error) bool {
	if isGRPCWrappedError(err) {
		err = UnwrapGRPC(err)
	}

	return errors.Is(err, target)
}

func As(err error, target any) bool {
	if isGRPCWrappedError(err) {
		err = UnwrapGRPC(err)
	}

	return errors.As(err, target)
}

// AsData walks the wrap chain looking for data assignable to target.
func AsData(err error, target interface{}) bool {
	if isGRPCWrappedError(err) {
		err = UnwrapGRPC(err)
	}

	castedErr, ok := err.(*Error)
	if !ok {
		return false
	}

	if castedErr.data != nil {
		if data, ok := castedErr.data.(error); ok && errors.As(data, target) {
			return true
		}
	}

	if castedErr.wrappedErr != nil {
		return AsData(castedErr.wrappedErr, target)
	}

	return false
}

func isGRPCWrappedError(err error) bool {
	if _, ok := err.(*Error); ok {
		return false
	}

	_, ok := status.FromError(err)

	return ok && err != nil
}
