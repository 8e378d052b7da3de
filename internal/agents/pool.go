package agents

import (
	"github.com/talgya/econsim/internal/economy"
	"github.com/talgya/econsim/internal/entropy"
)

// Pool owns every person in the run, indexed by id. Persons are stored in
// ascending id order so iteration is deterministic.
type Pool struct {
	persons []*Person
	index   map[int]*Person
}

// NewPool creates an empty pool.
func NewPool() *Pool {
	return &Pool{index: make(map[int]*Person)}
}

// Add inserts a person. Ids are expected to arrive in ascending order from
// the spawner.
func (p *Pool) Add(person *Person) {
	p.persons = append(p.persons, person)
	p.index[person.ID] = person
}

// Get returns the person with an id, or nil.
func (p *Pool) Get(id int) *Person {
	return p.index[id]
}

// All returns every person in ascending id order.
func (p *Pool) All() []*Person {
	return p.persons
}

// ActiveCount returns the number of active persons.
func (p *Pool) ActiveCount() int {
	n := 0
	for _, person := range p.persons {
		if person.Active {
			n++
		}
	}
	return n
}

// TotalMoney sums balance plus savings across all persons.
func (p *Pool) TotalMoney() float64 {
	total := 0.0
	for _, person := range p.persons {
		total += person.TotalWealth()
	}
	return total
}

// Spawner seeds the initial population: persons with starting money, a
// strategy drawn from the run stream, a deterministic skill assignment, and a
// small friend circle so trade agreements can form.
type Spawner struct {
	InitialMoney    float64
	SkillsPerPerson int
}

// SpawnPopulation creates count persons over the given skill set. Each person
// offers SkillsPerPerson skills assigned round-robin, then shuffled needs come
// from the market at step time.
func (sp *Spawner) SpawnPopulation(count int, skillIDs []economy.SkillID, rng *entropy.Stream) *Pool {
	pool := NewPool()

	for i := 0; i < count; i++ {
		strategy := AllStrategies()[rng.Intn(len(AllStrategies()))]
		person := NewPerson(i, sp.InitialMoney, strategy)

		// Round-robin skill assignment keeps every skill supplied.
		for k := 0; k < sp.SkillsPerPerson && len(skillIDs) > 0; k++ {
			skill := skillIDs[(i*sp.SkillsPerPerson+k)%len(skillIDs)]
			if !person.HasSkill(skill) {
				person.OwnSkills = append(person.OwnSkills, skill)
			}
		}

		pool.Add(person)
	}

	// Friend circle: each person links to a few uniformly drawn others.
	for _, person := range pool.All() {
		links := rng.IntRange(1, 3)
		for k := 0; k < links; k++ {
			person.AddFriend(rng.Intn(count))
		}
	}

	return pool
}
