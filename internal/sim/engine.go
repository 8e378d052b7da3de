// Package sim provides the per-step economic orchestration engine: crisis
// injection, price formation, trading, credit, insurance, taxation,
// environment accounting, and the action log.
package sim

import (
	"fmt"
	"log/slog"

	"github.com/talgya/econsim/internal/agents"
	"github.com/talgya/econsim/internal/config"
	"github.com/talgya/econsim/internal/economy"
	"github.com/talgya/econsim/internal/entropy"
	"github.com/talgya/econsim/internal/finance"
)

// engineState tracks the engine's lifecycle. No transitions are possible
// mid-run.
type engineState uint8

const (
	stateInitialized engineState = iota
	stateRunning
	stateCompleted
)

// Fraction of a trade's value consumed as environmental resources, split
// evenly across the four resource types.
const tradeResourceIntensity = 0.05

// Price changes smaller than a cent are not logged.
const priceChangeTolerance = 0.01

// LocalCurrencyID is the run's trading currency in the exchange registry.
// Devaluation crises push its rate down relative to the base currency.
const LocalCurrencyID = "CRD"

// Engine composes every subsystem into the fixed per-step protocol. It is
// single-threaded and owns all state exclusively; two engines built from the
// same config and seed produce byte-identical action logs.
type Engine struct {
	cfg config.SimulationConfig
	rng *entropy.Stream

	pool        *agents.Pool
	market      *economy.Market
	government  *economy.Government
	currencies  *economy.CurrencySystem
	environment *economy.Environment
	seasonality *economy.Seasonality
	demandGen   economy.DemandGenerator

	agreements       []*economy.TradeAgreement
	agreementCounter int
	agreementStats   economy.AgreementStats

	loans     []*finance.Loan
	loanStats finance.LoanStats

	policies      []*finance.Policy
	policyCounter int
	insurancePool float64
	insStats      finance.InsuranceStats

	log *ActionLog

	state       engineState
	currentStep int

	// Per-step scratch, reused across steps to limit allocator churn.
	providers     map[economy.SkillID][]int
	stepCosts     map[economy.Resource]float64
	skillOrdinals map[economy.SkillID]int

	crisisThisStep bool
	crisisSeverity float64
	totalTrades    int
	totalFailed    int
	totalCrises    int
}

// NewEngine validates the configuration, builds every subsystem, and seeds
// the run's single random stream. The config is never mutated afterwards.
func NewEngine(cfg config.SimulationConfig) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	rng := entropy.NewStream(cfg.Seed)

	updater := economy.PriceUpdater{Strategy: pricingFor(cfg.Scenario)}
	market := economy.NewMarket(cfg.MinSkillPrice, 0.1, 0.02, updater)

	// One skill per person slot keeps supply and demand comparable.
	skillCount := cfg.EntityCount * cfg.SkillsPerPerson
	if skillCount > 4*cfg.EntityCount {
		skillCount = 4 * cfg.EntityCount
	}
	skillIDs := make([]economy.SkillID, 0, skillCount)
	ordinals := make(map[economy.SkillID]int, skillCount)
	for i := 0; i < skillCount; i++ {
		id := economy.DeterministicSkillID(i)
		market.AddSkill(economy.NewSkill(id, fmt.Sprintf("Skill %d", i), cfg.BaseSkillPrice))
		skillIDs = append(skillIDs, id)
		ordinals[id] = i
	}

	spawner := &agents.Spawner{
		InitialMoney:    cfg.InitialMoneyPerPerson,
		SkillsPerPerson: cfg.SkillsPerPerson,
	}
	pool := spawner.SpawnPopulation(cfg.EntityCount, skillIDs, rng)

	currencies := economy.NewCurrencySystem()
	currencies.Add(economy.NewCurrency(LocalCurrencyID, "Credits", 1.0))

	e := &Engine{
		cfg:           cfg,
		rng:           rng,
		pool:          pool,
		market:        market,
		government:    economy.NewGovernment(cfg.TaxRate, cfg.EnableTaxRedistribution),
		currencies:    currencies,
		environment:   economy.NewEnvironmentWithDefaults(),
		seasonality:   economy.NewSeasonality(cfg.Seed, cfg.SeasonalAmplitude),
		demandGen:     economy.DemandGenerator{Pattern: demandFor(cfg.DemandStrategy)},
		log:           NewActionLog(cfg.Seed, cfg.EntityCount, cfg.MaxSteps),
		providers:     make(map[economy.SkillID][]int),
		stepCosts:     make(map[economy.Resource]float64),
		skillOrdinals: ordinals,
	}
	return e, nil
}

func pricingFor(s config.Scenario) economy.PricingStrategy {
	switch s {
	case config.ScenarioDynamicPricing:
		return economy.PricingDynamic
	case config.ScenarioAdaptivePricing:
		return economy.PricingAdaptive
	case config.ScenarioAuctionPricing:
		return economy.PricingAuction
	default:
		return economy.PricingOriginal
	}
}

func demandFor(d config.DemandStrategy) economy.DemandPattern {
	switch d {
	case config.DemandConcentrated:
		return economy.DemandPatternConcentrated
	case config.DemandCyclical:
		return economy.DemandPatternCyclical
	default:
		return economy.DemandPatternUniform
	}
}

// CurrentStep returns the number of completed steps.
func (e *Engine) CurrentStep() int {
	return e.currentStep
}

// ActionLog returns the run's action log.
func (e *Engine) ActionLog() *ActionLog {
	return e.log
}

// TotalMoney returns the sum of all person wealth, the government treasury,
// and the insurance pool. Used by conservation checks.
func (e *Engine) TotalMoney() float64 {
	return e.pool.TotalMoney() + e.government.TotalCollected + e.insurancePool
}

// Step advances the simulation exactly one tick through the fixed phase
// order. Calling it after the run completed is an error.
func (e *Engine) Step() error {
	if e.state == stateCompleted {
		return fmt.Errorf("step: engine already completed at step %d", e.currentStep)
	}
	if e.currentStep >= e.cfg.MaxSteps {
		return fmt.Errorf("step: step counter %d already at max_steps", e.currentStep)
	}
	e.state = stateRunning

	e.beginStep()
	e.crisisPhase()
	e.priceUpdatePhase()
	e.tradingPhase()
	e.creditPhase()
	e.insurancePhase()
	e.taxationPhase()
	e.environmentPhase()
	e.bookkeeping()

	return nil
}

// Run steps until max_steps or until no person remains active, then produces
// the terminal result. It must not be called twice; engine state is not
// reset.
func (e *Engine) Run() (*SimulationResult, error) {
	if e.state != stateInitialized {
		return nil, fmt.Errorf("run: engine already started")
	}

	slog.Info("simulation starting",
		"seed", e.cfg.Seed,
		"entities", e.cfg.EntityCount,
		"max_steps", e.cfg.MaxSteps,
		"scenario", string(e.cfg.Scenario),
	)

	for e.currentStep < e.cfg.MaxSteps && e.pool.ActiveCount() > 0 {
		if err := e.Step(); err != nil {
			return nil, err
		}
		if e.currentStep%100 == 0 {
			stats := e.market.Stats()
			slog.Info("progress report",
				"step", e.currentStep,
				"active", e.pool.ActiveCount(),
				"trades", e.totalTrades,
				"failed_trades", e.totalFailed,
				"crises", e.totalCrises,
				"mean_price", fmt.Sprintf("%.2f", stats.MeanPrice),
			)
		}
	}

	e.state = stateCompleted
	result := e.buildResult()

	slog.Info("simulation complete",
		"steps", result.TotalSteps,
		"active", result.ActivePersons,
		"total_money", fmt.Sprintf("%.2f", result.Money.Total),
		"trades", result.TotalTrades,
	)
	return result, nil
}

// beginStep clears per-step counters, sweeps trade agreements, generates
// demand, and rebuilds the supply census.
func (e *Engine) beginStep() {
	e.market.ResetStepCounters()
	e.crisisThisStep = false
	e.crisisSeverity = 0
	for r := range e.stepCosts {
		delete(e.stepCosts, r)
	}

	for _, p := range e.pool.All() {
		if p.Active {
			p.BeginStep()
		}
	}

	e.sweepAndFormAgreements()
	e.generateDemand()
	e.rebuildSupply()
}

// sweepAndFormAgreements expires finished agreements and probabilistically
// forms new bilateral ones between friends.
func (e *Engine) sweepAndFormAgreements() {
	if !e.cfg.EnableTradeAgreements {
		return
	}

	kept := e.agreements[:0]
	for _, ag := range e.agreements {
		if ag.IsActive(e.currentStep) {
			kept = append(kept, ag)
			continue
		}
		e.agreementStats.TotalExpired++
		for _, pid := range ag.PartnerIDs {
			if p := e.pool.Get(pid); p != nil {
				p.AgreementIDs = removeID(p.AgreementIDs, ag.ID)
			}
		}
	}
	e.agreements = kept

	for _, p := range e.pool.All() {
		if !p.Active || len(p.Friends) == 0 {
			continue
		}
		if !e.rng.Chance(e.cfg.TradeAgreementProbability) {
			continue
		}

		friendID := p.Friends[e.rng.Intn(len(p.Friends))]
		friend := e.pool.Get(friendID)
		if friend == nil || !friend.Active {
			continue
		}
		if e.activeAgreementBetween(p.ID, friendID) != nil {
			continue
		}

		ag := economy.NewBilateralAgreement(
			e.agreementCounter, p.ID, friendID,
			e.cfg.TradeAgreementDiscount, e.currentStep, e.cfg.TradeAgreementDuration,
		)
		e.agreementCounter++
		e.agreementStats.TotalFormed++
		e.agreements = append(e.agreements, ag)

		p.AgreementIDs = append(p.AgreementIDs, ag.ID)
		friend.AgreementIDs = append(friend.AgreementIDs, ag.ID)
	}
}

func (e *Engine) activeAgreementBetween(a, b int) *economy.TradeAgreement {
	for _, ag := range e.agreements {
		if ag.IsActive(e.currentStep) && ag.IncludesBoth(a, b) {
			return ag
		}
	}
	return nil
}

// generateDemand draws each person's needs for the step and bumps the
// market's demand counters.
func (e *Engine) generateDemand() {
	skillIDs := e.market.SkillIDs()

	for _, p := range e.pool.All() {
		if !p.Active {
			continue
		}

		count := e.demandGen.Count(p.ID, e.currentStep, e.rng)
		if e.seasonality.Enabled() && len(p.OwnSkills) > 0 {
			factor := 0.0
			for _, id := range p.OwnSkills {
				factor += e.seasonality.Factor(e.skillOrdinals[id], e.currentStep)
			}
			factor /= float64(len(p.OwnSkills))
			count = int(float64(count)*factor + 0.5)
			if count < 1 {
				count = 1
			}
			if count > 5 {
				count = 5
			}
		}

		// Candidate needs are skills the person doesn't already offer.
		candidates := make([]economy.SkillID, 0, len(skillIDs))
		for _, id := range skillIDs {
			if !p.HasSkill(id) {
				candidates = append(candidates, id)
			}
		}
		e.rng.Shuffle(len(candidates), func(i, j int) {
			candidates[i], candidates[j] = candidates[j], candidates[i]
		})

		if count > len(candidates) {
			count = len(candidates)
		}
		for _, id := range candidates[:count] {
			p.NeededSkills = append(p.NeededSkills, id)
			e.market.IncrementDemand(id)
		}
	}
}

// rebuildSupply counts providers per skill for this step.
func (e *Engine) rebuildSupply() {
	for id := range e.providers {
		delete(e.providers, id)
	}
	for _, p := range e.pool.All() {
		if !p.Active {
			continue
		}
		for _, id := range p.OwnSkills {
			e.providers[id] = append(e.providers[id], p.ID)
		}
	}
	for _, id := range e.market.SkillIDs() {
		e.market.SetSupply(id, len(e.providers[id]))
	}
}

// crisisPhase draws whether a crisis fires this step and applies its effect.
func (e *Engine) crisisPhase() {
	if !e.cfg.EnableCrisisEvents || !e.rng.Chance(e.cfg.CrisisProbability) {
		return
	}

	kinds := AllCrisisKinds()
	kind := kinds[e.rng.Intn(len(kinds))]
	severity := e.cfg.CrisisSeverity

	e.crisisThisStep = true
	e.crisisSeverity = severity
	e.totalCrises++

	switch kind {
	case CrisisMarketCrash:
		for _, id := range e.market.SkillIDs() {
			price, _ := e.market.Price(id)
			e.market.SetPrice(id, kind.ApplyEffect(price, severity, e.rng))
		}
	case CrisisDemandShock:
		for _, id := range e.market.SkillIDs() {
			demand := float64(e.market.Demand(id))
			if demand > 0 {
				e.market.SetDemand(id, int(kind.ApplyEffect(demand, severity, e.rng)))
			}
		}
	case CrisisSupplyShock:
		for _, id := range e.market.SkillIDs() {
			supply := float64(len(e.providers[id]))
			if supply > 0 {
				e.market.SetSupply(id, int(kind.ApplyEffect(supply, severity, e.rng)))
			}
		}
	case CrisisCurrencyDevaluation:
		// The registry rate moves first, then balances take the haircut.
		if c, ok := e.currencies.Get(LocalCurrencyID); ok {
			devalued := kind.ApplyEffect(c.ExchangeRate, severity, e.rng)
			e.currencies.Add(economy.NewCurrency(c.ID, c.Name, devalued))
		}
		for _, p := range e.pool.All() {
			if p.Active && p.Money > 0 {
				p.Money = kind.ApplyEffect(p.Money, severity, e.rng)
			}
		}
	case CrisisTechnologyShock:
		ids := e.market.SkillIDs()
		e.rng.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })
		hit := int(float64(len(ids)) * TechShockShare(severity))
		for _, id := range ids[:hit] {
			price, _ := e.market.Price(id)
			e.market.SetPrice(id, kind.ApplyEffect(price, severity, e.rng))
		}
	}

	e.log.RecordCrisis(e.currentStep, kind, severity)
	slog.Debug("crisis fired", "step", e.currentStep, "kind", kind.String(), "severity", severity)
}

// priceUpdatePhase runs the scenario's price updater and logs changed prices.
func (e *Engine) priceUpdatePhase() {
	ids := e.market.SkillIDs()
	before := make([]float64, len(ids))
	for i, id := range ids {
		before[i], _ = e.market.Price(id)
	}

	e.market.UpdatePrices(e.rng)

	for i, id := range ids {
		after, _ := e.market.Price(id)
		if diff := after - before[i]; diff > priceChangeTolerance || diff < -priceChangeTolerance {
			e.log.RecordPriceUpdate(e.currentStep, id, before[i], after)
		}
	}
}

// tradingPhase executes trades buyer by buyer in ascending id order. Under
// the auction scenario, contested skills resolve through a bidding round
// first; everything else trades bilaterally at the market price.
func (e *Engine) tradingPhase() {
	if e.cfg.Scenario == config.ScenarioAuctionPricing {
		e.auctionRounds()
	}

	for _, buyer := range e.pool.All() {
		if !buyer.Active {
			continue
		}
		for _, skillID := range buyer.NeededSkills {
			if buyer.IsSatisfied(skillID) {
				continue
			}
			seller := e.firstProvider(skillID, buyer.ID)
			if seller == nil {
				continue
			}
			price, ok := e.market.Price(skillID)
			if !ok {
				continue
			}
			e.executeTrade(buyer, seller, skillID, price)
		}
	}
}

// auctionRounds resolves skills wanted by two or more buyers via sealed-bid
// auctions. Each buyer bids their strategy-scaled valuation capped at their
// balance; the winner trades at the winning bid.
func (e *Engine) auctionRounds() {
	interested := make(map[economy.SkillID][]*agents.Person)
	for _, p := range e.pool.All() {
		if !p.Active {
			continue
		}
		for _, id := range p.NeededSkills {
			interested[id] = append(interested[id], p)
		}
	}

	for _, skillID := range e.market.SkillIDs() {
		buyers := interested[skillID]
		if len(buyers) < 2 {
			continue
		}
		price, ok := e.market.Price(skillID)
		if !ok {
			continue
		}

		auction := economy.NewAuction(skillID, economy.AuctionEnglish)
		for _, b := range buyers {
			bid := price * b.Strategy.SpendingMultiplier()
			if bid > b.Money {
				bid = b.Money
			}
			if bid <= 0 {
				continue
			}
			auction.AddBid(b.ID, bid)
		}

		winnerID, bid, ok := auction.Resolve()
		if !ok {
			continue
		}
		winner := e.pool.Get(winnerID)
		seller := e.firstProvider(skillID, winnerID)
		if winner == nil || seller == nil || winner.IsSatisfied(skillID) {
			continue
		}
		e.executeTrade(winner, seller, skillID, bid)
	}
}

// firstProvider returns the lowest-id active provider of a skill other than
// the buyer.
func (e *Engine) firstProvider(skillID economy.SkillID, buyerID int) *agents.Person {
	for _, pid := range e.providers[skillID] {
		if pid == buyerID {
			continue
		}
		if p := e.pool.Get(pid); p != nil && p.Active {
			return p
		}
	}
	return nil
}

// executeTrade settles one trade: fee and agreement discount adjust the
// price, the buyer pays the full effective price, the seller receives the
// proceeds minus tax and fee, and both tax and fee accrue to the government.
// Money moves only here, so conservation holds by construction.
func (e *Engine) executeTrade(buyer, seller *agents.Person, skillID economy.SkillID, price float64) {
	effective := price * (1.0 + e.cfg.TransactionFeeRate)

	ag := e.activeAgreementBetween(buyer.ID, seller.ID)
	if ag != nil {
		effective = ag.DiscountedPrice(effective)
	}

	if !buyer.CanAffordWithStrategy(effective) {
		e.totalFailed++
		e.log.RecordFailedTrade(e.currentStep, buyer.ID, seller.ID, skillID, effective)
		return
	}

	// Agreement counters move only on success.
	if ag != nil {
		ag.RecordTrade(effective)
		e.agreementStats.TotalTrades++
		e.agreementStats.TotalTradeValue += effective
	}

	tax := e.government.CollectTax(effective)

	// The fee share of the effective price goes to the treasury, not the
	// seller, so it returns to persons through redistribution.
	fee := 0.0
	if e.cfg.TransactionFeeRate > 0 {
		fee = effective * e.cfg.TransactionFeeRate / (1.0 + e.cfg.TransactionFeeRate)
		e.government.AddTax(fee)
	}

	buyer.Money -= effective
	seller.Money += effective - tax - fee
	seller.IncomeThisStep += effective - tax - fee

	buyer.MarkSatisfied(skillID)
	e.market.RecordSale(skillID)
	e.totalTrades++
	e.log.RecordTrade(e.currentStep, buyer.ID, seller.ID, skillID, effective)

	// Each trade consumes resources proportional to its value, split evenly.
	perResource := effective * tradeResourceIntensity / 4.0
	for _, r := range economy.AllResources() {
		e.stepCosts[r] += perResource
	}
}

// creditPhase services outstanding loans, then originates new ones for
// persons below the balance floor.
func (e *Engine) creditPhase() {
	if !e.cfg.EnableLoans {
		return
	}

	for _, loan := range e.loans {
		if loan.Status != finance.LoanActive {
			continue
		}
		borrower := e.pool.Get(loan.BorrowerID)
		lender := e.pool.Get(loan.LenderID)
		if borrower == nil || lender == nil {
			continue
		}

		payment := loan.PaymentAmount()
		if borrower.Money >= payment {
			borrower.Money -= payment
			lender.Money += payment
			loan.MakePayment()
			if loan.Status == finance.LoanRepaid {
				borrower.LoanID = -1
				e.loanStats.TotalRepaid++
			}
		} else {
			loan.MarkDefaulted()
			borrower.LoanID = -1
			e.loanStats.TotalDefaulted++
			slog.Debug("loan defaulted",
				"step", e.currentStep, "loan", loan.ID, "borrower", borrower.ID)
		}
	}

	floor := 0.25 * e.cfg.InitialMoneyPerPerson
	principal := 0.5 * e.cfg.InitialMoneyPerPerson

	for _, borrower := range e.pool.All() {
		if !borrower.Active || borrower.LoanID != -1 || borrower.Money >= floor {
			continue
		}
		lender := e.findLender(borrower.ID, principal)
		if lender == nil {
			continue
		}

		loan := finance.NewLoan(
			len(e.loans), borrower.ID, lender.ID,
			principal, e.cfg.LoanInterestRate, e.cfg.LoanRepaymentSteps, e.currentStep,
		)
		e.loans = append(e.loans, loan)
		borrower.LoanID = loan.ID
		lender.Money -= principal
		borrower.Money += principal
		e.loanStats.TotalIssued++
		e.loanStats.TotalPrincipal += principal
	}
}

// findLender scans persons in ascending id order for the first one whose
// balance clears the lendable threshold and can fund the principal.
func (e *Engine) findLender(borrowerID int, principal float64) *agents.Person {
	for _, p := range e.pool.All() {
		if !p.Active || p.ID == borrowerID {
			continue
		}
		if p.Money >= e.cfg.MinLendableBalance && p.Money >= principal {
			return p
		}
	}
	return nil
}

// insurancePhase collects premiums, settles claims, expires policies, and
// issues new ones.
func (e *Engine) insurancePhase() {
	if !e.cfg.EnableInsurance {
		return
	}

	threshold := 0.5 * e.cfg.BaseSkillPrice

	for _, pol := range e.policies {
		if !pol.IsActive(e.currentStep) {
			continue
		}
		holder := e.pool.Get(pol.HolderID)
		if holder == nil || !holder.Active {
			continue
		}

		// Premium due every step; a holder who cannot pay loses the policy.
		if pol.IssuedAt < e.currentStep {
			if holder.Money < pol.Premium {
				pol.Claimed = true
				e.insStats.PoliciesExpired++
				continue
			}
			holder.Money -= pol.Premium
			e.insurancePool += pol.Premium
			e.insStats.PremiumsCollected += pol.Premium
		}

		var payout float64
		switch pol.Coverage {
		case finance.CoverageCrisis:
			if e.crisisThisStep {
				payout = pol.CoverageAmount * e.crisisSeverity
			}
		case finance.CoverageIncome:
			if holder.IncomeThisStep < threshold {
				payout = threshold - holder.IncomeThisStep
				if payout > pol.CoverageAmount {
					payout = pol.CoverageAmount
				}
			}
		case finance.CoverageCredit:
			if holder.Money < threshold && holder.LoanID != -1 {
				payout = e.loans[holder.LoanID].OutstandingDebt()
				if payout > pol.CoverageAmount {
					payout = pol.CoverageAmount
				}
			}
		}

		if payout > 0 {
			holder.Money += payout
			e.insurancePool -= payout
			pol.Claimed = true
			e.insStats.ClaimsPaid++
			e.insStats.PayoutsTotal += payout
		}
	}

	// Expire policies whose duration elapsed this step.
	for _, pol := range e.policies {
		if pol.Claimed || pol.Duration == 0 {
			continue
		}
		if e.currentStep >= pol.IssuedAt+pol.Duration {
			pol.Claimed = true
			e.insStats.PoliciesExpired++
		}
	}

	// Issue new policies: one Bernoulli draw per uncovered type per person.
	for _, p := range e.pool.All() {
		if !p.Active {
			continue
		}
		for _, coverage := range finance.AllCoverageTypes() {
			if e.hasActivePolicy(p.ID, coverage) {
				continue
			}
			if !e.rng.Chance(e.cfg.InsurancePurchaseProbability) {
				continue
			}
			premium := e.cfg.InsuranceCoverageAmount * e.cfg.InsurancePremiumRate
			if p.Money < premium {
				continue
			}
			p.Money -= premium
			e.insurancePool += premium
			e.insStats.PremiumsCollected += premium

			pol := finance.NewPolicy(
				e.policyCounter, p.ID, coverage,
				e.cfg.InsuranceCoverageAmount, premium,
				e.currentStep, e.cfg.InsuranceDuration,
			)
			e.policyCounter++
			e.policies = append(e.policies, pol)
			e.insStats.PoliciesIssued++
		}
	}
}

func (e *Engine) hasActivePolicy(holderID int, coverage finance.CoverageType) bool {
	for _, pol := range e.policies {
		if pol.HolderID == holderID && pol.Coverage == coverage && pol.IsActive(e.currentStep) {
			return true
		}
	}
	return false
}

// taxationPhase sweeps the treasury evenly across active persons whenever
// anything has accumulated.
func (e *Engine) taxationPhase() {
	share := e.government.Redistribute(e.pool.ActiveCount())
	if share <= 0 {
		return
	}
	for _, p := range e.pool.All() {
		if p.Active {
			p.Money += share
		}
	}
}

// environmentPhase records this step's trade-driven resource consumption and
// advances the environment's clock.
func (e *Engine) environmentPhase() {
	if len(e.stepCosts) > 0 {
		e.environment.Consume(e.stepCosts)
	}
	e.environment.Step()
}

// bookkeeping applies savings and tech growth, retires bankrupt persons, and
// advances the step counter.
func (e *Engine) bookkeeping() {
	for _, p := range e.pool.All() {
		if !p.Active {
			continue
		}
		p.ApplySavings(e.cfg.SavingsRate)
		if p.TotalWealth() < 0 && p.LoanID == -1 {
			p.Active = false
			slog.Debug("person bankrupt", "step", e.currentStep, "person", p.ID)
		}
	}

	e.market.ApplyTechGrowth(e.cfg.TechGrowthRate)
	e.currentStep++
}

// buildResult assembles the terminal snapshot.
func (e *Engine) buildResult() *SimulationResult {
	persons := e.pool.All()

	result := &SimulationResult{
		TotalSteps:        e.currentStep,
		ActivePersons:     e.pool.ActiveCount(),
		TotalTrades:       e.totalTrades,
		TotalFailedTrades: e.totalFailed,
		TotalCrises:       e.totalCrises,
		TaxCollected:      e.government.TotalCollected,
		TaxRedistributed:  e.government.TotalRedistributed,
		InsurancePoolLeft: e.insurancePool,
		Sustainability:    e.environment.OverallSustainability(),
		Market:            e.market.Stats(),
	}
	if c, ok := e.currencies.Get(LocalCurrencyID); ok {
		result.ExchangeRate = c.ExchangeRate
	}

	first := true
	for _, p := range persons {
		wealth := p.TotalWealth()
		result.Money.Total += wealth
		if first {
			result.Money.Min, result.Money.Max = wealth, wealth
			first = false
		} else {
			if wealth < result.Money.Min {
				result.Money.Min = wealth
			}
			if wealth > result.Money.Max {
				result.Money.Max = wealth
			}
		}
		result.Persons = append(result.Persons, PersonSnapshot{
			ID:      p.ID,
			Money:   p.Money,
			Savings: p.Savings,
			Active:  p.Active,
		})
	}
	if len(persons) > 0 {
		result.Money.Mean = result.Money.Total / float64(len(persons))
	}

	if e.cfg.EnableLoans {
		stats := e.loanStats
		result.Loans = &stats
	}
	if e.cfg.EnableInsurance {
		stats := e.insStats
		result.Insurance = &stats
	}
	if e.cfg.EnableTradeAgreements {
		stats := e.agreementStats
		for _, ag := range e.agreements {
			if ag.IsActive(e.currentStep) {
				stats.ActiveCount++
			}
		}
		result.Agreements = &stats
	}

	return result
}

func removeID(ids []int, id int) []int {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
