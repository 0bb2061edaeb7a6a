package recipe

import (
	"context"
	"errors"
	"fmt"
	"strings"

	lru "github.com/hashicorp/golang-lru"
	"github.com/rs/zerolog"

	"foodgram/internal/domain"
	"foodgram/internal/metrics"
	"foodgram/internal/pkg/pagination"
	"foodgram/internal/pkg/shortcode"
	"foodgram/internal/pkg/validator"
	"foodgram/internal/repository"
	"foodgram/internal/storage"
)

const defaultCacheSize = 1024

type Deps struct {
	Recipes       RecipeRepository
	Tags          TagRepository
	Ingredients   IngredientRepository
	Favorites     repository.Relation[domain.Favorite]
	Cart          repository.Relation[domain.ShoppingCartEntry]
	Subscriptions repository.Relation[domain.Subscription]
	Images        storage.Store
	Codes         *shortcode.Generator
	// LinkBaseURL prefixes short links: <LinkBaseURL>/s/<code>.
	LinkBaseURL string
	CacheSize   int
}

// Service is the read/write facade over recipes and their relations.
type Service struct {
	recipes       RecipeRepository
	tags          TagRepository
	ingredients   IngredientRepository
	favorites     repository.Relation[domain.Favorite]
	cart          repository.Relation[domain.ShoppingCartEntry]
	subscriptions repository.Relation[domain.Subscription]
	images        storage.Store
	codes         *shortcode.Generator
	linkBaseURL   string
	// short code -> recipe id; codes never change, entries are dropped on delete
	codeCache *lru.Cache
}

func NewService(d Deps) (*Service, error) {
	if d.Codes == nil {
		d.Codes = shortcode.Default()
	}
	if d.CacheSize <= 0 {
		d.CacheSize = defaultCacheSize
	}
	cache, err := lru.New(d.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("short code cache: %w", err)
	}
	return &Service{
		recipes:       d.Recipes,
		tags:          d.Tags,
		ingredients:   d.Ingredients,
		favorites:     d.Favorites,
		cart:          d.Cart,
		subscriptions: d.Subscriptions,
		images:        d.Images,
		codes:         d.Codes,
		linkBaseURL:   strings.TrimRight(d.LinkBaseURL, "/"),
		codeCache:     cache,
	}, nil
}

// ListQuery holds recipe list filters. Relation filters are ignored for
// anonymous viewers.
type ListQuery struct {
	pagination.Params
	AuthorID         int64
	Tags             []string
	IsFavorited      *bool
	IsInShoppingCart *bool
}

func (s *Service) Get(ctx context.Context, viewerID, id int64) (*RecipeResponse, error) {
	rec, err := s.recipes.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}
	flags, err := s.resolveFlags(ctx, viewerID, []domain.Recipe{*rec})
	if err != nil {
		return nil, err
	}
	resp := toRecipeResponse(rec, flags[rec.ID])
	return &resp, nil
}

func (s *Service) List(ctx context.Context, viewerID int64, q ListQuery) ([]RecipeResponse, int64, error) {
	f := repository.RecipeFilter{
		AuthorID: q.AuthorID,
		TagSlugs: q.Tags,
		Limit:    q.Limit,
		Offset:   q.Offset(),
	}
	if viewerID > 0 {
		if q.IsFavorited != nil {
			if *q.IsFavorited {
				f.FavoritedBy = viewerID
			} else {
				f.NotFavoritedBy = viewerID
			}
		}
		if q.IsInShoppingCart != nil {
			if *q.IsInShoppingCart {
				f.InCartOf = viewerID
			} else {
				f.NotInCartOf = viewerID
			}
		}
	}

	recipes, total, err := s.recipes.List(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	flags, err := s.resolveFlags(ctx, viewerID, recipes)
	if err != nil {
		return nil, 0, err
	}
	out := make([]RecipeResponse, 0, len(recipes))
	for i := range recipes {
		out = append(out, toRecipeResponse(&recipes[i], flags[recipes[i].ID]))
	}
	return out, total, nil
}

// resolveFlags computes favorite / cart / author-subscription flags for the
// viewer with one query per relation. Anonymous viewers get all false.
func (s *Service) resolveFlags(ctx context.Context, viewerID int64, recipes []domain.Recipe) (map[int64]viewerFlags, error) {
	out := make(map[int64]viewerFlags, len(recipes))
	if viewerID <= 0 || len(recipes) == 0 {
		return out, nil
	}

	recipeIDs := make([]int64, 0, len(recipes))
	authorIDs := make([]int64, 0, len(recipes))
	for _, r := range recipes {
		recipeIDs = append(recipeIDs, r.ID)
		authorIDs = append(authorIDs, r.AuthorID)
	}

	favorited, err := s.favorites.ExistingObjects(ctx, viewerID, recipeIDs)
	if err != nil {
		return nil, err
	}
	inCart, err := s.cart.ExistingObjects(ctx, viewerID, recipeIDs)
	if err != nil {
		return nil, err
	}
	following, err := s.subscriptions.ExistingObjects(ctx, viewerID, authorIDs)
	if err != nil {
		return nil, err
	}

	for _, r := range recipes {
		out[r.ID] = viewerFlags{
			favorited:    favorited[r.ID],
			inCart:       inCart[r.ID],
			authorFollow: following[r.AuthorID],
		}
	}
	return out, nil
}

// Create validates the request, stores the image, assigns a short code and
// inserts the recipe with its tags and ingredients in one transaction.
func (s *Service) Create(ctx context.Context, authorID int64, req RecipeRequest) (*RecipeResponse, error) {
	if authorID <= 0 {
		return nil, ErrUnauthorized
	}
	tagIDs, items, err := s.validate(ctx, &req)
	if err != nil {
		return nil, err
	}

	image, err := s.saveImage(ctx, req.Image)
	if err != nil {
		return nil, err
	}

	id, err := s.insert(ctx, authorID, req, image, tagIDs, items)
	if err != nil {
		s.dropImage(ctx, image)
		return nil, err
	}

	zerolog.Ctx(ctx).Info().Int64("recipe_id", id).Int64("author_id", authorID).Msg("recipe created")
	return s.Get(ctx, authorID, id)
}

// insert retries with a fresh code when the insert loses a race on the
// short code unique index.
func (s *Service) insert(ctx context.Context, authorID int64, req RecipeRequest, image string, tagIDs []int64, items []domain.RecipeIngredient) (int64, error) {
	for attempt := 0; attempt < s.codes.MaxAttempts(); attempt++ {
		code, err := s.codes.Generate(ctx, s.recipes.ShortCodeExists)
		if err != nil {
			if errors.Is(err, shortcode.ErrExhausted) {
				return 0, ErrShortCodeConflict
			}
			return 0, err
		}

		rec := &domain.Recipe{
			AuthorID:    authorID,
			Name:        req.Name,
			Image:       image,
			Text:        req.Text,
			CookingTime: req.CookingTime,
			ShortCode:   &code,
		}
		err = s.recipes.Create(ctx, rec, tagIDs, items)
		if errors.Is(err, repository.ErrShortCodeTaken) {
			metrics.ShortCodeCollisionsTotal.Inc()
			continue
		}
		if err != nil {
			return 0, err
		}
		return rec.ID, nil
	}
	return 0, ErrShortCodeConflict
}

// Update replaces every field of the recipe. Only the author may update.
func (s *Service) Update(ctx context.Context, userID, id int64, req RecipeRequest) (*RecipeResponse, error) {
	current, err := s.recipes.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}
	if current.AuthorID != userID {
		return nil, ErrForbidden
	}

	tagIDs, items, err := s.validate(ctx, &req)
	if err != nil {
		return nil, err
	}

	image := current.Image
	replaced := false
	if req.Image != current.Image {
		if image, err = s.saveImage(ctx, req.Image); err != nil {
			return nil, err
		}
		replaced = true
	}

	rec := &domain.Recipe{
		ID:          id,
		Name:        req.Name,
		Image:       image,
		Text:        req.Text,
		CookingTime: req.CookingTime,
	}
	if err := s.recipes.Update(ctx, rec, tagIDs, items); err != nil {
		if replaced {
			s.dropImage(ctx, image)
		}
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}
	if replaced {
		s.dropImage(ctx, current.Image)
	}
	return s.Get(ctx, userID, id)
}

func (s *Service) Delete(ctx context.Context, userID, id int64) error {
	authorID, err := s.recipes.GetAuthorID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrRecipeNotFound
		}
		return err
	}
	if authorID != userID {
		return ErrForbidden
	}

	deleted, err := s.recipes.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrRecipeNotFound
		}
		return err
	}
	if deleted.ShortCode != nil {
		s.codeCache.Remove(*deleted.ShortCode)
	}
	s.dropImage(ctx, deleted.Image)
	return nil
}

// ShortLink returns the absolute permalink of a recipe.
func (s *Service) ShortLink(ctx context.Context, id int64) (string, error) {
	rec, err := s.recipes.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrRecipeNotFound
		}
		return "", err
	}
	if rec.ShortCode == nil {
		return "", fmt.Errorf("recipe %d has no short code", id)
	}
	return s.linkBaseURL + "/s/" + *rec.ShortCode, nil
}

// ResolveShortCode maps a permalink code to its recipe id.
func (s *Service) ResolveShortCode(ctx context.Context, code string) (int64, error) {
	if v, ok := s.codeCache.Get(code); ok {
		return v.(int64), nil
	}
	id, err := s.recipes.IDByShortCode(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, ErrRecipeNotFound
		}
		return 0, err
	}
	s.codeCache.Add(code, id)
	return id, nil
}

func (s *Service) AddFavorite(ctx context.Context, userID, recipeID int64) (*RecipeShortResponse, error) {
	if _, err := s.favorites.Add(ctx, userID, recipeID); err != nil {
		return nil, relationError(err)
	}
	return s.short(ctx, recipeID)
}

func (s *Service) RemoveFavorite(ctx context.Context, userID, recipeID int64) error {
	if err := s.requireRecipe(ctx, recipeID); err != nil {
		return err
	}
	return s.favorites.Remove(ctx, userID, recipeID)
}

func (s *Service) AddToCart(ctx context.Context, userID, recipeID int64) (*RecipeShortResponse, error) {
	if _, err := s.cart.Add(ctx, userID, recipeID); err != nil {
		return nil, relationError(err)
	}
	return s.short(ctx, recipeID)
}

func (s *Service) RemoveFromCart(ctx context.Context, userID, recipeID int64) error {
	if err := s.requireRecipe(ctx, recipeID); err != nil {
		return err
	}
	return s.cart.Remove(ctx, userID, recipeID)
}

// ShoppingList aggregates the ingredients of every recipe in the user's cart.
func (s *Service) ShoppingList(ctx context.Context, userID int64) ([]domain.ShoppingListItem, error) {
	return s.recipes.ShoppingList(ctx, userID)
}

func (s *Service) short(ctx context.Context, id int64) (*RecipeShortResponse, error) {
	rec, err := s.recipes.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}
	resp := ToRecipeShortResponse(rec)
	return &resp, nil
}

func (s *Service) requireRecipe(ctx context.Context, id int64) error {
	if _, err := s.recipes.GetAuthorID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrRecipeNotFound
		}
		return err
	}
	return nil
}

func relationError(err error) error {
	if errors.Is(err, repository.ErrTargetNotFound) {
		return ErrRecipeNotFound
	}
	return err
}

// validate normalizes req and checks it against the store. It returns the
// tag ids and ingredient rows ready for insert.
func (s *Service) validate(ctx context.Context, req *RecipeRequest) ([]int64, []domain.RecipeIngredient, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Text = strings.TrimSpace(req.Text)
	req.Image = strings.TrimSpace(req.Image)

	fields := validator.Validate(req)
	if fields == nil {
		fields = make(map[string]string)
	}

	switch {
	case len(req.Tags) == 0:
		fields["tags"] = "at least one tag is required"
	case hasDuplicates(req.Tags):
		fields["tags"] = "tags must not repeat"
	}

	ingredientIDs := make([]int64, 0, len(req.Ingredients))
	for _, it := range req.Ingredients {
		ingredientIDs = append(ingredientIDs, it.ID)
	}
	switch {
	case len(req.Ingredients) == 0:
		fields["ingredients"] = "at least one ingredient is required"
	case hasDuplicates(ingredientIDs):
		fields["ingredients"] = "ingredients must not repeat"
	}

	if req.Image == "" {
		fields["image"] = "recipe image is required"
	}
	if len(fields) > 0 {
		return nil, nil, &ValidationError{Fields: fields}
	}

	tags, err := s.tags.GetByIDs(ctx, req.Tags)
	if err != nil {
		return nil, nil, err
	}
	if missing := missingIDs(req.Tags, tagIDs(tags)); len(missing) > 0 {
		fields["tags"] = fmt.Sprintf("unknown tag id %d", missing[0])
	}

	ingredients, err := s.ingredients.GetByIDs(ctx, ingredientIDs)
	if err != nil {
		return nil, nil, err
	}
	if missing := missingIDs(ingredientIDs, ingredientIDsOf(ingredients)); len(missing) > 0 {
		fields["ingredients"] = fmt.Sprintf("unknown ingredient id %d", missing[0])
	}
	if len(fields) > 0 {
		return nil, nil, &ValidationError{Fields: fields}
	}

	items := make([]domain.RecipeIngredient, 0, len(req.Ingredients))
	for _, it := range req.Ingredients {
		items = append(items, domain.RecipeIngredient{IngredientID: it.ID, Amount: it.Amount})
	}
	return req.Tags, items, nil
}

func (s *Service) saveImage(ctx context.Context, dataURI string) (string, error) {
	url, err := storage.SaveDataURI(ctx, s.images, "recipes", dataURI)
	if err != nil {
		if errors.Is(err, storage.ErrInvalidImage) ||
			errors.Is(err, storage.ErrEmptyImage) ||
			errors.Is(err, storage.ErrImageTooLarge) ||
			errors.Is(err, storage.ErrImageType) {
			return "", &ValidationError{Fields: map[string]string{"image": err.Error()}}
		}
		return "", fmt.Errorf("save recipe image: %w", err)
	}
	return url, nil
}

// dropImage is best effort: a leftover file is logged, not returned.
func (s *Service) dropImage(ctx context.Context, url string) {
	if url == "" {
		return
	}
	if err := s.images.Delete(ctx, url); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("url", url).Msg("failed to delete recipe image")
	}
}

func hasDuplicates(ids []int64) bool {
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			return true
		}
		seen[id] = struct{}{}
	}
	return false
}

func missingIDs(want, have []int64) []int64 {
	found := make(map[int64]bool, len(have))
	for _, id := range have {
		found[id] = true
	}
	var missing []int64
	for _, id := range want {
		if !found[id] {
			missing = append(missing, id)
		}
	}
	return missing
}

func tagIDs(tags []domain.Tag) []int64 {
	ids := make([]int64, 0, len(tags))
	for _, t := range tags {
		ids = append(ids, t.ID)
	}
	return ids
}

func ingredientIDsOf(ingredients []domain.Ingredient) []int64 {
	ids := make([]int64, 0, len(ingredients))
	for _, i := range ingredients {
		ids = append(ids, i.ID)
	}
	return ids
}
