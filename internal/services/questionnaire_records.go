package services

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"

	"fullgorilla/internal/cookbook"
	"fullgorilla/internal/models/db_models"
	"fullgorilla/internal/questionnaire"
)

// Question ids lifted into dedicated columns.
const (
	fieldAccountType  = "q1"
	fieldAge          = "q4"
	fieldSex          = "q5"
	fieldHeight       = "q6"
	fieldWeight       = "q7"
	fieldTargetWeight = "q8"
	fieldRegion       = "q10"
	fieldHealthGoals  = "q11"
	fieldAllergies    = "q23"
	fieldIntolerances = "q24"
	fieldDiet         = "q25"
	fieldCuisines     = "q30"
	fieldCookingSkill = "q47"
	fieldBreakfast    = "q48"
	fieldLunch        = "q49"
	fieldDinner       = "q50"
	fieldEquipment    = "q51"
	fieldCookingStyle = "q52"
	fieldMealsPerDay  = "q53"
	fieldShopping     = "q57"
	fieldBudget       = "q58"
)

func numberOf(a questionnaire.Answer) *int {
	if a.Number == nil {
		return nil
	}
	n := *a.Number
	return &n
}

func jsonOf(v any) (datatypes.JSON, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(b), nil
}

// responseRecord maps a completed payload onto its storage rows.
func responseRecord(accountID uuid.UUID, p questionnaire.Payload, slugs []string) (*db_models.QuestionnaireResponse, error) {
	r := p.PrimaryResponses
	raw, err := jsonOf(r.Natural())
	if err != nil {
		return nil, fmt.Errorf("encode primary responses: %w", err)
	}

	accountType := r.Get(fieldAccountType).Scalar()
	if accountType == "" {
		accountType = "individual"
	}

	rec := &db_models.QuestionnaireResponse{
		AccountID:        accountID,
		AccountType:      accountType,
		HouseholdSize:    max(1, len(p.FamilyMembers)),
		Region:           r.Get(fieldRegion).Scalar(),
		CookingSkill:     r.Get(fieldCookingSkill).Scalar(),
		BreakfastTime:    r.Get(fieldBreakfast).Scalar(),
		LunchTime:        r.Get(fieldLunch).Scalar(),
		DinnerTime:       r.Get(fieldDinner).Scalar(),
		KitchenEquipment: pq.StringArray(r.Get(fieldEquipment).List()),
		CookingStyle:     r.Get(fieldCookingStyle).Scalar(),
		MealsPerDay:      r.Get(fieldMealsPerDay).Scalar(),
		ShoppingPlaces:   pq.StringArray(r.Get(fieldShopping).List()),
		GroceryBudget:    r.Get(fieldBudget).Scalar(),
		Responses:        raw,
		CookbookSlugs:    pq.StringArray(slugs),
	}

	for i, m := range p.FamilyMembers {
		member, err := memberRecord(i, m)
		if err != nil {
			return nil, err
		}
		rec.Members = append(rec.Members, member)
	}
	return rec, nil
}

func memberRecord(position int, m questionnaire.Member) (db_models.FamilyMember, error) {
	r := m.Responses
	raw, err := jsonOf(r.Natural())
	if err != nil {
		return db_models.FamilyMember{}, fmt.Errorf("encode responses of %s: %w", m.ID, err)
	}

	var height datatypes.JSON
	if h := r.Get(fieldHeight).Height; h != nil {
		if height, err = jsonOf(h); err != nil {
			return db_models.FamilyMember{}, err
		}
	}

	return db_models.FamilyMember{
		Position:         position,
		MemberKey:        m.ID,
		Name:             m.Name,
		Age:              numberOf(r.Get(fieldAge)),
		Sex:              r.Get(fieldSex).Scalar(),
		Height:           height,
		WeightLbs:        numberOf(r.Get(fieldWeight)),
		TargetWeightLbs:  numberOf(r.Get(fieldTargetWeight)),
		HealthGoals:      pq.StringArray(r.Get(fieldHealthGoals).List()),
		Allergies:        pq.StringArray(r.Get(fieldAllergies).List()),
		Intolerances:     pq.StringArray(r.Get(fieldIntolerances).List()),
		Diet:             r.Get(fieldDiet).Scalar(),
		FavoriteCuisines: pq.StringArray(r.Get(fieldCuisines).List()),
		Responses:        raw,
	}, nil
}

// decodeResponses reads natural JSON answers back through the catalog.
// Ids the catalog no longer knows are dropped.
func decodeResponses(c *questionnaire.Catalog, raw map[string]json.RawMessage) (questionnaire.Responses, error) {
	out := make(questionnaire.Responses, len(raw))
	for id, v := range raw {
		q, ok := c.Question(id)
		if !ok {
			continue
		}
		a, err := questionnaire.Decode(q, v)
		if err != nil {
			return nil, &questionnaire.ValidationError{QuestionID: id, Reason: err.Error()}
		}
		out[id] = a
	}
	return out, nil
}

func decodeStored(c *questionnaire.Catalog, data datatypes.JSON) (questionnaire.Responses, error) {
	if len(data) == 0 {
		return questionnaire.Responses{}, nil
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode stored responses: %w", err)
	}
	return decodeResponses(c, raw)
}

func cookbookRows(books []cookbook.Cookbook) []db_models.Cookbook {
	rows := make([]db_models.Cookbook, len(books))
	for i, cb := range books {
		rows[i] = db_models.Cookbook{
			Slug:        cb.Slug,
			Name:        cb.Name,
			Theme:       cb.Theme,
			Description: cb.Description,
			Category:    string(cb.Category),
			Tags:        pq.StringArray(cb.Tags),
			IsPremium:   cb.Premium,
			IsFeatured:  cb.Featured,
			MealCount:   cb.MealCount,
		}
	}
	return rows
}
