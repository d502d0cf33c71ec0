// Package taxonomy normalizes free-form provider category tags into the
// internal category enumeration used for place records.
package taxonomy

import "strings"

// Category is the internal cuisine/venue classification for a place.
type Category string

const (
	CategoryItalian  Category = "italian"
	CategoryJapanese Category = "japanese"
	CategoryChinese  Category = "chinese"
	CategoryKorean   Category = "korean"
	CategoryMexican  Category = "mexican"
	CategoryThai     Category = "thai"
	CategoryIndian   Category = "indian"
	CategoryFrench   Category = "french"
	CategoryBBQ      Category = "bbq"
	CategoryBurger   Category = "burger"
	CategoryPizza    Category = "pizza"
	CategorySeafood  Category = "seafood"
	CategoryVegan    Category = "vegan"
	CategoryCafe     Category = "cafe"
	CategoryBakery   Category = "bakery"
	CategoryBar      Category = "bar"

	// CategoryRestaurant is the fallback when no tag matches any rule.
	CategoryRestaurant Category = "restaurant"
)

// exactTags maps provider tags to categories for exact (lowercased) matches.
// Checked before the keyword rules so specific provider vocabulary wins.
var exactTags = map[string]Category{
	"italian_restaurant":  CategoryItalian,
	"japanese_restaurant": CategoryJapanese,
	"sushi_restaurant":    CategoryJapanese,
	"chinese_restaurant":  CategoryChinese,
	"korean_restaurant":   CategoryKorean,
	"mexican_restaurant":  CategoryMexican,
	"thai_restaurant":     CategoryThai,
	"indian_restaurant":   CategoryIndian,
	"french_restaurant":   CategoryFrench,
	"barbecue_restaurant": CategoryBBQ,
	"hamburger_restaurant": CategoryBurger,
	"pizza_restaurant":    CategoryPizza,
	"pizzeria":            CategoryPizza,
	"seafood_restaurant":  CategorySeafood,
	"vegan_restaurant":    CategoryVegan,
	"coffee_shop":         CategoryCafe,
	"cafe":                CategoryCafe,
	"bakery":              CategoryBakery,
	"bar":                 CategoryBar,
}

// keywordRule matches when any of its keywords is a substring of a tag.
type keywordRule struct {
	keywords []string
	category Category
}

// keywordRules are evaluated in order. The order is part of the contract:
// the first rule matching any tag wins, so more specific keywords come
// before generic ones (e.g. "sushi" before "bar" would matter for
// "sushi_bar").
var keywordRules = []keywordRule{
	{[]string{"sushi", "japanese"}, CategoryJapanese},
	{[]string{"italian", "trattoria"}, CategoryItalian},
	{[]string{"chinese", "dim_sum"}, CategoryChinese},
	{[]string{"korean"}, CategoryKorean},
	{[]string{"mexican", "taco"}, CategoryMexican},
	{[]string{"thai"}, CategoryThai},
	{[]string{"indian", "curry"}, CategoryIndian},
	{[]string{"french", "bistro"}, CategoryFrench},
	{[]string{"bbq", "barbecue"}, CategoryBBQ},
	{[]string{"burger"}, CategoryBurger},
	{[]string{"pizza"}, CategoryPizza},
	{[]string{"seafood", "fish"}, CategorySeafood},
	{[]string{"vegan", "vegetarian"}, CategoryVegan},
	{[]string{"coffee", "cafe"}, CategoryCafe},
	{[]string{"bakery", "pastry"}, CategoryBakery},
	{[]string{"bar", "pub"}, CategoryBar},
}

// Classify maps provider category tags to one internal category.
//
// The algorithm is two deterministic passes over the tags in input order:
// first an exact lookup against the known provider vocabulary, then the
// ordered keyword rules with substring matching. The first match in either
// pass wins; if nothing matches, CategoryRestaurant is returned.
func Classify(tags []string) Category {
	// Pass 1: exact vocabulary match, in input order.
	for _, tag := range tags {
		if cat, ok := exactTags[strings.ToLower(tag)]; ok {
			return cat
		}
	}

	// Pass 2: ordered keyword rules, substring match against any tag.
	for _, rule := range keywordRules {
		for _, tag := range tags {
			lower := strings.ToLower(tag)
			for _, kw := range rule.keywords {
				if strings.Contains(lower, kw) {
					return rule.category
				}
			}
		}
	}

	return CategoryRestaurant
}
