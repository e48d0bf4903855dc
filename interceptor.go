package objmodel

// Interceptor is a hook that wraps every dispatched method call, including
// calls made through Super and inherited trampolines.
//
//	func timing(ctx *objmodel.Context, args []any, next objmodel.MethodFunc) (any, error) {
//	    start := time.Now()
//	    res, err := next(ctx, args...)
//	    log.Printf("%s.%s took %v", ctx.Type().Name(), ctx.Member(), time.Since(start))
//	    return res, err
//	}
//
// args are the arguments after overload binding: a variadic tail is already
// collected into its []any. Interceptors can:
//   - Inspect or replace the arguments before calling next
//   - Inspect or replace the result after calling next
//   - Short-circuit by returning an error without calling next
type Interceptor func(ctx *Context, args []any, next MethodFunc) (res any, err error)

// chainInterceptors combines multiple interceptors into a single one.
// The first interceptor in the slice is the outer-most one (runs first).
func chainInterceptors(interceptors []Interceptor) Interceptor {
	if len(interceptors) == 0 {
		return nil
	}
	if len(interceptors) == 1 {
		return interceptors[0]
	}
	return func(ctx *Context, args []any, next MethodFunc) (any, error) {
		// Chain: i[0] -> i[1] -> ... -> next
		chain := next
		for i := len(interceptors) - 1; i >= 0; i-- {
			current := interceptors[i]
			inner := chain
			chain = func(ctx *Context, args ...any) (any, error) {
				return current(ctx, args, inner)
			}
		}
		return chain(ctx, args...)
	}
}
