/*
Package errors implements custom error interfaces for tokenswap.

The idea is to reuse as many errors from this package as possible and define
custom package errors when absolutely necessary. Every failure returned by an
extension should wrap one of the root errors declared here, so that a client
can tell the kind of the failure from the returned code.

If you want to register a custom error - use Register(code, description).
For reusing errors - use Errxxx.New and Errxxx.Newf, or Wrap and Wrapf.

To test the kind of an error use the Is method of the root error:

	if errors.ErrNotFound.Is(err) {
		...
	}

There is also support for stacktraces. Please ensure you create the custom
error using ErrXyz.New("...") or errors.Wrap(err, "...") at the point of
creation to ensure we attach a stacktrace. If you wrap multiple times, we only
record the first wrap with the stacktrace.

Once you have an error, you can use `fmt.Printf/Sprintf` to get more context for the error
	%s is just the error message
	%+v is the full stack trace
	%v appends a compressed [filename:line] where the error was created
*/
package errors
