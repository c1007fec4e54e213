package fixedwindow_test

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Weiwf/distribute-limit/pkg/fixedwindow"
)

func ExampleGuard_Do() {
	// MemoryCounter stands in for Redis; the guard code path is identical.
	guard := fixedwindow.NewGuard(fixedwindow.NewMemoryCounter())

	policy := &fixedwindow.Policy{Window: 10 * time.Second, Limit: 2}
	id := fixedwindow.Identity{Caller: "203.0.113.7", Target: "orders", Operation: "checkout"}

	for i := 0; i < 3; i++ {
		err := guard.Do(context.Background(), id, policy, func(ctx context.Context) error {
			fmt.Println("order placed")
			return nil
		})
		if errors.Is(err, fixedwindow.ErrRateLimitExceeded) {
			fmt.Println("try again later")
		}
	}

	// Output:
	// order placed
	// order placed
	// try again later
}
