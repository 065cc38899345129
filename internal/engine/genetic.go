package engine

import (
	"context"
	"math/rand"
	"sort"

	"github.com/piwi3910/PageFit/internal/model"
)

// GeneticConfig holds parameters for the genetic refinement.
type GeneticConfig struct {
	PopulationSize int
	Generations    int
	MutationRate   float64
	TournamentSize int
	EliteCount     int
	Seed           int64
}

// DefaultGeneticConfig returns sensible default parameters.
func DefaultGeneticConfig() GeneticConfig {
	return GeneticConfig{
		PopulationSize: 40,
		Generations:    60,
		MutationRate:   0.2,
		TournamentSize: 3,
		EliteCount:     2,
		Seed:           42,
	}
}

// chromosome is a packing order over the image slice. Lower fitness is better.
type chromosome struct {
	order   []int
	fitness float64
}

// geneticSearch evolves image orders packed with one fixed heuristic.
type geneticSearch struct {
	config GeneticConfig
	images []model.Image
	pack   packConfig
	rng    *rand.Rand
}

func newGeneticSearch(config GeneticConfig, images []model.Image, pack packConfig) *geneticSearch {
	return &geneticSearch{
		config: config,
		images: images,
		pack:   pack,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// run evolves the population starting from seed and returns the best order.
func (g *geneticSearch) run(ctx context.Context, seed []int) (chromosome, error) {
	population := g.initPopulation(seed)
	for i := range population {
		population[i].fitness = g.evaluate(population[i])
	}

	for gen := 0; gen < g.config.Generations; gen++ {
		if err := ctx.Err(); err != nil {
			return chromosome{}, err
		}

		g.rank(population)

		next := make([]chromosome, 0, g.config.PopulationSize)
		elite := min(g.config.EliteCount, len(population))
		for i := 0; i < elite; i++ {
			next = append(next, population[i].clone())
		}

		for len(next) < g.config.PopulationSize {
			child := g.orderCrossover(g.tournamentSelect(population), g.tournamentSelect(population))
			g.mutate(&child)
			child.fitness = g.evaluate(child)
			next = append(next, child)
		}
		population = next
	}

	g.rank(population)
	return population[0], nil
}

// rank sorts ascending by fitness. Stable so the seed keeps its place on ties.
func (g *geneticSearch) rank(population []chromosome) {
	sort.SliceStable(population, func(i, j int) bool {
		return population[i].fitness < population[j].fitness
	})
}

// initPopulation fills the population with random orders; slot 0 holds seed.
func (g *geneticSearch) initPopulation(seed []int) []chromosome {
	size := max(g.config.PopulationSize, 1)
	population := make([]chromosome, size)
	population[0] = chromosome{order: append([]int(nil), seed...)}
	for i := 1; i < size; i++ {
		population[i] = chromosome{order: g.rng.Perm(len(g.images))}
	}
	return population
}

func (g *geneticSearch) decode(c chromosome) model.Layout {
	ordered := make([]model.Image, len(c.order))
	for i, idx := range c.order {
		ordered[i] = g.images[idx]
	}
	return packOrdered(ordered, g.pack)
}

// evaluate scores a chromosome. Rejected images weigh as much as a page so a
// tighter layout can never come from dropping images.
func (g *geneticSearch) evaluate(c chromosome) float64 {
	layout := g.decode(c)
	return Score(layout) + float64(len(layout.Rejected))*pageWeight
}

// tournamentSelect picks the fittest of a few random individuals.
func (g *geneticSearch) tournamentSelect(population []chromosome) chromosome {
	best := population[g.rng.Intn(len(population))]
	for i := 1; i < g.config.TournamentSize; i++ {
		candidate := population[g.rng.Intn(len(population))]
		if candidate.fitness < best.fitness {
			best = candidate
		}
	}
	return best.clone()
}

// orderCrossover implements OX1: a slice of parent1 is kept in place and the
// remaining positions are filled in parent2's order.
func (g *geneticSearch) orderCrossover(parent1, parent2 chromosome) chromosome {
	n := len(parent1.order)
	if n <= 2 {
		return parent1.clone()
	}

	point1 := g.rng.Intn(n)
	point2 := g.rng.Intn(n)
	if point1 > point2 {
		point1, point2 = point2, point1
	}

	child := chromosome{order: make([]int, n)}
	inSegment := make(map[int]bool, point2-point1+1)
	for i := point1; i <= point2; i++ {
		child.order[i] = parent1.order[i]
		inSegment[parent1.order[i]] = true
	}

	pos := (point2 + 1) % n
	for _, idx := range parent2.order {
		if !inSegment[idx] {
			child.order[pos] = idx
			pos = (pos + 1) % n
		}
	}
	return child
}

// mutate applies swap and inversion mutations.
func (g *geneticSearch) mutate(c *chromosome) {
	n := len(c.order)
	if n < 2 {
		return
	}

	if g.rng.Float64() < g.config.MutationRate {
		i, j := g.rng.Intn(n), g.rng.Intn(n)
		c.order[i], c.order[j] = c.order[j], c.order[i]
	}

	if g.rng.Float64() < g.config.MutationRate*0.5 {
		i, j := g.rng.Intn(n), g.rng.Intn(n)
		if i > j {
			i, j = j, i
		}
		for ; i < j; i, j = i+1, j-1 {
			c.order[i], c.order[j] = c.order[j], c.order[i]
		}
	}
}

func (c chromosome) clone() chromosome {
	return chromosome{order: append([]int(nil), c.order...), fitness: c.fitness}
}

// refine improves a catalog winner by evolving the packing order with the
// winner's heuristic. The winner's own order seeds the population and elitism
// keeps it, so the returned result never scores worse than best.
func (e *Engine) refine(ctx context.Context, images []model.Image, best StrategyResult) (StrategyResult, error) {
	if len(images) < 3 {
		return best, nil
	}

	pack := packConfig{
		heuristic: best.Strategy.Heuristic,
		area:      e.opts.Page.PrintArea(),
		oversize:  e.opts.Oversize,
	}
	ga := newGeneticSearch(e.opts.Genetic, images, pack)
	winner, err := ga.run(ctx, sortedOrder(images, best.Strategy.Sort))
	if err != nil {
		return StrategyResult{}, err
	}

	layout := ga.decode(winner)
	refined := newStrategyResult(best.Strategy, layout, e.opts.Page)
	if refined.Score >= best.Score || refined.Rejected > best.Rejected {
		return best, nil
	}

	e.logger.Debug("genetic refinement improved layout", "from", best.Score, "to", refined.Score)
	return refined, nil
}
