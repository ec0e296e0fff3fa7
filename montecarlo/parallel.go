package montecarlo

import (
	"context"
	"sort"

	"github.com/sourcegraph/conc/pool"
	"github.com/wyfcoding/pricing/statistics"
	"github.com/wyfcoding/pricing/xerrors"
)

// ModelFactory 以给定随机源构造一个独立的模型实例。
type ModelFactory func(source RandomSource) (*Model, error)

// BlockPlan 描述一次分块采样。
// 第 b 块使用种子 DeriveSeed(Seed, FirstBlock+b)，各块按序合并，
// 因此结果与 Workers 无关、逐位可复现。
type BlockPlan struct {
	Seed       uint64
	Samples    int
	BlockSize  int
	Workers    int
	FirstBlock int
}

// Blocks 返回本次采样的块数。
func (s BlockPlan) Blocks() int {
	if s.BlockSize <= 0 {
		return 1
	}
	return (s.Samples + s.BlockSize - 1) / s.BlockSize
}

type blockResult struct {
	index int
	acc   statistics.Accumulator
}

// RunBlocks 将样本划分为固定大小的块并发采样，返回合并后的统计量。
func RunBlocks(ctx context.Context, plan BlockPlan, factory ModelFactory) (statistics.Accumulator, error) {
	if plan.Samples <= 0 {
		return statistics.Accumulator{}, xerrors.ErrInvalidSampleCount
	}
	blockSize := plan.BlockSize
	if blockSize <= 0 {
		blockSize = plan.Samples
	}
	workers := max(plan.Workers, 1)
	blocks := (plan.Samples + blockSize - 1) / blockSize

	p := pool.NewWithResults[blockResult]().
		WithMaxGoroutines(workers).
		WithContext(ctx).
		WithCancelOnError()

	for b := range blocks {
		n := min(blockSize, plan.Samples-b*blockSize)
		stream := plan.FirstBlock + b
		p.Go(func(ctx context.Context) (blockResult, error) {
			if err := ctx.Err(); err != nil {
				return blockResult{}, err
			}
			m, err := factory(NewGaussianGenerator(DeriveSeed(plan.Seed, stream)))
			if err != nil {
				return blockResult{}, err
			}
			m.AddSamples(n)
			return blockResult{index: b, acc: m.Accumulator()}, nil
		})
	}

	results, err := p.Wait()
	if err != nil {
		return statistics.Accumulator{}, err
	}

	sort.Slice(results, func(i, j int) bool { return results[i].index < results[j].index })
	var total statistics.Accumulator
	for i := range results {
		total.Merge(&results[i].acc)
	}
	return total, nil
}
