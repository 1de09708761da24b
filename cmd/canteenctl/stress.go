package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/rl1809/canteen/internal/adapter/handler/rpc"
)

var (
	stressItem     string
	stressRequests int
)

var stressCmd = &cobra.Command{
	Use:   "stress",
	Short: "Fire concurrent orders at one item and check nothing oversells",
	RunE:  runStress,
}

func init() {
	stressCmd.Flags().StringVar(&stressItem, "item", "4", "item id to order")
	stressCmd.Flags().IntVarP(&stressRequests, "requests", "n", 50, "concurrent orders to place")
}

type stressResult struct {
	InitialCount int
	FinalCount   int
	Requests     int
	Successful   int
	SoldOut      int
	Failed       int
	Duration     time.Duration
}

func runStress(cmd *cobra.Command, args []string) error {
	client, closeConn, err := dial()
	if err != nil {
		return err
	}
	defer closeConn()

	ctx := authContext(cmd.Context())

	initial, err := itemCount(ctx, client, stressItem)
	if err != nil {
		return err
	}

	var successCount, soldOutCount, failCount atomic.Int32
	var wg sync.WaitGroup
	start := time.Now()

	for i := 0; i < stressRequests; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			callCtx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			_, err := client.PlaceOrder(callCtx, &rpc.PlaceOrderRequest{RequestID: uuid.NewString(), ItemID: stressItem})
			switch {
			case err == nil:
				successCount.Add(1)
			case status.Code(err) == codes.FailedPrecondition:
				soldOutCount.Add(1)
			default:
				failCount.Add(1)
			}
		}()
	}

	wg.Wait()
	elapsed := time.Since(start)

	final, err := itemCount(ctx, client, stressItem)
	if err != nil {
		return err
	}

	ok := report(os.Stdout, stressResult{
		InitialCount: initial,
		FinalCount:   final,
		Requests:     stressRequests,
		Successful:   int(successCount.Load()),
		SoldOut:      int(soldOutCount.Load()),
		Failed:       int(failCount.Load()),
		Duration:     elapsed,
	})
	if !ok {
		return fmt.Errorf("stress test failed")
	}
	return nil
}

func itemCount(ctx context.Context, client *rpc.CanteenServiceClient, itemID string) (int, error) {
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, err := client.ListMenu(callCtx, &rpc.ListMenuRequest{})
	if err != nil {
		return 0, err
	}
	for _, item := range resp.Items {
		if item.ID == itemID {
			return item.AvailabilityCount, nil
		}
	}
	return 0, fmt.Errorf("item %s not on the menu", itemID)
}

// report prints the run and reports whether stock accounting held up.
func report(w io.Writer, r stressResult) bool {
	fmt.Fprintln(w, "========== STRESS TEST RESULTS ==========")
	fmt.Fprintf(w, "Initial Count:    %d\n", r.InitialCount)
	fmt.Fprintf(w, "Total Requests:   %d\n", r.Requests)
	fmt.Fprintf(w, "Successful:       %d\n", r.Successful)
	fmt.Fprintf(w, "Sold Out:         %d\n", r.SoldOut)
	fmt.Fprintf(w, "Failed:           %d\n", r.Failed)
	fmt.Fprintf(w, "Duration:         %v\n", r.Duration)
	fmt.Fprintf(w, "Final Count:      %d\n", r.FinalCount)
	fmt.Fprintln(w, "==========================================")

	ok := true
	if r.InitialCount-r.FinalCount != r.Successful {
		fmt.Fprintf(w, "FAIL: count dropped by %d but %d orders succeeded\n", r.InitialCount-r.FinalCount, r.Successful)
		ok = false
	}
	if want := min(r.InitialCount, r.Requests); r.Failed == 0 && r.Successful != want {
		fmt.Fprintf(w, "FAIL: expected %d successful orders, got %d\n", want, r.Successful)
		ok = false
	}
	if ok {
		fmt.Fprintf(w, "PASS: %d orders, no overselling\n", r.Successful)
	}
	return ok
}
