// Package montecarlo 提供蒙特卡洛定价的基础构件：随机源、路径生成、路径定价与样本聚合。
package montecarlo

import (
	"math/rand/v2"
	"time"
)

// RandomSource 独立标准正态随机数的来源。
type RandomSource interface {
	Next() float64
}

// GaussianGenerator 基于 PCG 的可复现标准正态随机数生成器。
type GaussianGenerator struct {
	rng  *rand.Rand
	seed uint64
}

// NewGaussianGenerator 以给定种子创建生成器；相同种子产生相同序列。
// 种子为 0 时使用时钟种子（不可复现）。
func NewGaussianGenerator(seed uint64) *GaussianGenerator {
	seed = ResolveSeed(seed)
	return &GaussianGenerator{
		rng:  rand.New(rand.NewPCG(seed, splitmix64(seed))),
		seed: seed,
	}
}

// Next 返回下一个标准正态随机数。
func (g *GaussianGenerator) Next() float64 {
	return g.rng.NormFloat64()
}

// Seed 返回实际使用的种子。
func (g *GaussianGenerator) Seed() uint64 {
	return g.seed
}

// ResolveSeed 将 0 解析为时钟种子，其余原样返回。
func ResolveSeed(seed uint64) uint64 {
	if seed != 0 {
		return seed
	}
	return splitmix64(uint64(time.Now().UnixNano()))
}

// DeriveSeed 为第 stream 个子流派生独立种子。
func DeriveSeed(seed uint64, stream int) uint64 {
	return splitmix64(seed + uint64(stream+1)*0x9E3779B97F4A7C15)
}

func splitmix64(x uint64) uint64 {
	x += 0x9E3779B97F4A7C15
	x = (x ^ (x >> 30)) * 0xBF58476D1CE4E5B9
	x = (x ^ (x >> 27)) * 0x94D049BB133111EB
	return x ^ (x >> 31)
}
