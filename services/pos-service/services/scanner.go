package services

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	awspkg "github.com/PrathamVadhavana/Smart-Inventory-Management-System-sub000/pkg/aws"
	"github.com/PrathamVadhavana/Smart-Inventory-Management-System-sub000/services/pos-service/models"
)

// ErrScanCoolingDown marks a code seen again inside its cooldown window.
var ErrScanCoolingDown = errors.New("barcode scanned again within cooldown")

// ScanFunc applies one decoded barcode to the cart.
type ScanFunc func(ctx context.Context, code string) (models.AddResult, error)

type ScanResult struct {
	Code    string
	Result  models.AddResult
	Err     error
	Skipped bool
}

type scanEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// BarcodeScanner debounces decoded barcodes per code and feeds the accepted
// ones to the cart exactly like manual entry.
type BarcodeScanner struct {
	scan     ScanFunc
	cooldown time.Duration
	now      func() time.Time
	onResult func(ScanResult)
	metrics  MetricsRecorder
	logger   *zap.Logger

	mu      sync.Mutex
	entries map[string]*scanEntry
}

func NewBarcodeScanner(scan ScanFunc, cooldown time.Duration, metrics MetricsRecorder, logger *zap.Logger) *BarcodeScanner {
	if metrics == nil {
		metrics = NopMetrics{}
	}
	return &BarcodeScanner{
		scan:     scan,
		cooldown: cooldown,
		now:      time.Now,
		metrics:  metrics,
		logger:   logger,
		entries:  make(map[string]*scanEntry),
	}
}

// WithClock replaces the clock, for tests.
func (b *BarcodeScanner) WithClock(now func() time.Time) *BarcodeScanner {
	b.now = now
	return b
}

// OnResult registers a callback for every handled code.
func (b *BarcodeScanner) OnResult(fn func(ScanResult)) *BarcodeScanner {
	b.onResult = fn
	return b
}

// Run consumes codes until the channel closes or ctx ends.
func (b *BarcodeScanner) Run(ctx context.Context, codes <-chan string) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case code, ok := <-codes:
			if !ok {
				return nil
			}
			res := b.Handle(ctx, code)
			if b.onResult != nil {
				b.onResult(res)
			}
		}
	}
}

// ReadCodes turns a line-oriented scanner feed (a serial or keyboard-wedge
// device emits one code per line) into a code stream for Run. The channel
// closes at EOF, on a read error or when ctx ends.
func ReadCodes(ctx context.Context, r io.Reader, logger *zap.Logger) <-chan string {
	codes := make(chan string)
	go func() {
		defer close(codes)
		lines := bufio.NewScanner(r)
		for lines.Scan() {
			code := strings.TrimSpace(lines.Text())
			if code == "" {
				continue
			}
			select {
			case codes <- code:
			case <-ctx.Done():
				return
			}
		}
		if err := lines.Err(); err != nil {
			logger.Error("Scanner feed read failed", zap.Error(err))
		}
	}()
	return codes
}

// Handle debounces and applies a single code.
func (b *BarcodeScanner) Handle(ctx context.Context, code string) ScanResult {
	code = strings.TrimSpace(code)
	res := ScanResult{Code: code}
	if code == "" {
		res.Skipped = true
		return res
	}
	if !b.allow(code) {
		res.Skipped = true
		res.Err = ErrScanCoolingDown
		_ = b.metrics.RecordCount(ctx, awspkg.MetricScansRejected, nil)
		return res
	}

	res.Result, res.Err = b.scan(ctx, code)
	if res.Err != nil {
		b.logger.Info("Scan rejected", zap.String("barcode", code), zap.Error(res.Err))
	} else if res.Result.Clamped > 0 {
		b.logger.Info("Scan clamped", zap.String("barcode", code), zap.Int("clamped", res.Result.Clamped))
	}
	return res
}

func (b *BarcodeScanner) allow(code string) bool {
	if b.cooldown <= 0 {
		return true
	}
	now := b.now()

	b.mu.Lock()
	defer b.mu.Unlock()

	for k, e := range b.entries {
		if now.Sub(e.lastSeen) > b.cooldown {
			delete(b.entries, k)
		}
	}
	e, ok := b.entries[code]
	if !ok {
		e = &scanEntry{limiter: rate.NewLimiter(rate.Every(b.cooldown), 1)}
		b.entries[code] = e
	}
	e.lastSeen = now
	return e.limiter.AllowN(now, 1)
}
