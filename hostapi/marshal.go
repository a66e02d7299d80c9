package hostapi

import (
	"context"
	"fmt"

	"github.com/hiveml/hivehost/internal/guestmem"
)

// Marshal walks the operation's descriptor list over the flat argument
// stack, decodes every argument through the view, invokes the handler, and
// writes the returned Pod at the trailing output pointer.
//
// Every validation failure is returned as an ordinary error (never a trap)
// so the dispatcher can reduce it to a boundary code. A failure to write the
// output is itself an invalid-arguments error nested under the call result.
func (op *Operation) Marshal(ctx context.Context, view guestmem.View, ic *InstanceContext, stack []uint64) error {
	if len(stack) != op.StackWidth() {
		return Internal(fmt.Errorf("operation %q: argument stack has %d values, want %d", op.Name, len(stack), op.StackWidth()))
	}

	args := make([]any, 0, len(op.Args))
	i := 0
	for _, d := range op.Args {
		switch d.Kind {
		case Scalar32:
			args = append(args, uint32(stack[i]))
			i++
		case Scalar64:
			args = append(args, stack[i])
			i++
		case StringArg:
			s, err := view.String(uint32(stack[i]), uint32(stack[i+1]))
			if err != nil {
				return InvalidArgumentsErr(err)
			}
			args = append(args, s)
			i += 2
		case StructArg:
			p := d.NewPod()
			if err := view.ReadPod(uint32(stack[i]), p); err != nil {
				return InvalidArgumentsErr(err)
			}
			args = append(args, p)
			i++
		default:
			return Internal(fmt.Errorf("operation %q: unknown argument kind %d", op.Name, d.Kind))
		}
	}
	outPtr := uint32(stack[i])

	out, err := op.Invoke(ctx, ic, args)
	if err != nil {
		return err
	}
	if out != nil {
		if err := view.WritePod(outPtr, out); err != nil {
			return InvalidArgumentsErr(fmt.Errorf("write result of %q: %w", op.Name, err))
		}
	}
	return nil
}
