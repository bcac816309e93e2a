package usecase

import (
	"context"
	"errors"
	"net/http"

	"animehub/internal/domain/model"
	repo "animehub/internal/repository"

	"github.com/labstack/gommon/log"
)

// CheckoutUsecaseはチェックアウト開始と決済照合（poll/webhook）を持つ。
// 照合は両方の入口から同じsettleに合流させ、どの順序・回数で呼ばれても
// 同じ終端状態（order=completed、カート空、台帳=paid）に収束させる。
type CheckoutUsecase struct {
	tx        repo.TransactionManager
	cartItems repo.CartItemRepository
	products  repo.ProductRepository
	payments  repo.PaymentTransactionRepository
	provider  CheckoutProvider
	idGen     IDGenerator
	locks     *userLocks
}

func NewCheckoutUsecase(
	tx repo.TransactionManager,
	cartItems repo.CartItemRepository,
	products repo.ProductRepository,
	payments repo.PaymentTransactionRepository,
	provider CheckoutProvider,
	idGen IDGenerator,
) *CheckoutUsecase {
	return &CheckoutUsecase{
		tx:        tx,
		cartItems: cartItems,
		products:  products,
		payments:  payments,
		provider:  provider,
		idGen:     idGen,
		locks:     newUserLocks(),
	}
}

type CheckoutInput struct {
	OriginURL string
}

type CheckoutOutput struct {
	URL       string `json:"url"`
	SessionID string `json:"session_id"`
}

type PaymentStatusOutput struct {
	SessionID     string `json:"session_id"`
	Status        string `json:"status"`
	PaymentStatus string `json:"payment_status"`
	AmountTotal   int64  `json:"amount_total"`
	Currency      string `json:"currency"`
}

// Checkoutはカートから注文を作り、プロバイダのセッションを開いて台帳に記録する。
func (u *CheckoutUsecase) Checkout(ctx context.Context, userID string, userEmail string, in CheckoutInput) (CheckoutOutput, error) {
	if userID == "" {
		return CheckoutOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if in.OriginURL == "" {
		return CheckoutOutput{}, NewHTTPError(http.StatusBadRequest, "invalid origin_url")
	}

	//同一ユーザーの同時チェックアウトを直列化
	unlock := u.locks.lock(userID)
	defer unlock()

	items, err := u.cartItems.ListByUserID(ctx, userID)
	if err != nil {
		return CheckoutOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if len(items) == 0 {
		return CheckoutOutput{}, NewHTTPError(http.StatusBadRequest, "cart is empty")
	}

	orderID := u.idGen.NewID()

	//現在のカタログ価格でスナップショットを作る
	orderItems := make([]model.OrderItem, 0, len(items))
	var total int64 = 0

	for _, it := range items {
		p, err := u.products.FindByID(ctx, it.ProductID)
		if errors.Is(err, repo.ErrNotFound) {
			//削除済み商品は黙ってスキップする（エラーにしない方針）
			continue
		}
		if err != nil {
			return CheckoutOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}

		total += p.Price * it.Quantity

		orderItems = append(orderItems, model.OrderItem{
			ID:                  u.idGen.NewID(),
			OrderID:             orderID,
			ProductID:           p.ID,
			ProductNameSnapshot: p.Name,
			UnitPriceSnapshot:   p.Price,
			Quantity:            it.Quantity,
		})
	}

	//注文＋明細はひとつのトランザクション
	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if err := r.Orders().Create(ctx, model.Order{
			ID:          orderID,
			UserID:      userID,
			UserEmail:   userEmail,
			Status:      model.OrderStatusPending,
			TotalAmount: total,
		}); err != nil {
			return err
		}
		return r.OrderItems().CreateBulk(ctx, orderItems)
	})
	if err != nil {
		return CheckoutOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//外部呼び出しはトランザクションに入れない。
	//ここで失敗するとsession無しのpending注文が残る（許容されたオーファン）。
	sess, err := u.provider.CreateSession(ctx, CheckoutSessionInput{
		Amount:     total,
		Currency:   "usd",
		SuccessURL: in.OriginURL + "/order-success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:  in.OriginURL + "/cart",
		Metadata: map[string]string{
			"order_id": orderID,
			"user_id":  userID,
		},
	})
	if err != nil {
		log.Errorf("checkout: create session failed (order=%s): %v", orderID, err)
		return CheckoutOutput{}, NewHTTPError(http.StatusInternalServerError, "payment provider unavailable")
	}

	//セッションIDの付与と台帳行の追加
	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if err := r.Orders().AttachSession(ctx, orderID, sess.ID); err != nil {
			return err
		}
		return r.Payments().Create(ctx, model.PaymentTransaction{
			ID:            u.idGen.NewID(),
			SessionID:     sess.ID,
			OrderID:       orderID,
			UserID:        userID,
			Amount:        total,
			Currency:      "usd",
			Status:        "pending",
			PaymentStatus: model.PaymentStatusInitiated,
		})
	})
	if err != nil {
		return CheckoutOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return CheckoutOutput{URL: sess.URL, SessionID: sess.ID}, nil
}

// PollStatusはプロバイダの現在状態を取り、台帳と注文へ反映して返す。
// 台帳が既にpaidならプロバイダへ問い合わせず、そのまま返す（冪等の早道）。
func (u *CheckoutUsecase) PollStatus(ctx context.Context, userID string, sessionID string) (PaymentStatusOutput, error) {
	if userID == "" {
		return PaymentStatusOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if sessionID == "" {
		return PaymentStatusOutput{}, NewHTTPError(http.StatusBadRequest, "invalid session_id")
	}

	row, err := u.payments.FindBySessionID(ctx, sessionID)
	if errors.Is(err, repo.ErrNotFound) {
		return PaymentStatusOutput{}, NewHTTPError(http.StatusNotFound, "session not found")
	}
	if err != nil {
		return PaymentStatusOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if row.PaymentStatus == model.PaymentStatusPaid {
		return PaymentStatusOutput{
			SessionID:     row.SessionID,
			Status:        row.Status,
			PaymentStatus: string(row.PaymentStatus),
			AmountTotal:   row.Amount,
			Currency:      row.Currency,
		}, nil
	}

	st, err := u.provider.GetStatus(ctx, sessionID)
	if err != nil {
		log.Errorf("poll: get status failed (session=%s): %v", sessionID, err)
		return PaymentStatusOutput{}, NewHTTPError(http.StatusInternalServerError, "payment provider unavailable")
	}

	if err := u.settle(ctx, sessionID, st.Status, st.PaymentStatus, st.Metadata); err != nil {
		return PaymentStatusOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return PaymentStatusOutput{
		SessionID:     sessionID,
		Status:        st.Status,
		PaymentStatus: st.PaymentStatus,
		AmountTotal:   st.AmountTotal,
		Currency:      st.Currency,
	}, nil
}

// HandleWebhookは署名検証に通ったイベントをsettleへ流す。
// 検証NGだけが呼び出し元エラー。settle内部の失敗はログに残して飲み込む
// （プロバイダは配送をリトライしてくるため）。
func (u *CheckoutUsecase) HandleWebhook(ctx context.Context, body []byte, signature string) error {
	ev, err := u.provider.VerifyWebhook(body, signature)
	if err != nil {
		return NewHTTPError(http.StatusBadRequest, "invalid webhook signature")
	}

	if err := u.settle(ctx, ev.SessionID, ev.Status, ev.PaymentStatus, ev.Metadata); err != nil {
		log.Errorf("webhook: settle failed (session=%s): %v", ev.SessionID, err)
	}
	return nil
}

// settleは照合の本体。poll/webhook共通で、1トランザクションで
// 台帳の上書き・注文のpending→completed・カートのクリアを行う。
// 全ステップ冪等：再実行や並走でも副作用は一度しか効かない。
func (u *CheckoutUsecase) settle(ctx context.Context, sessionID string, status string, paymentStatus string, metadata map[string]string) error {
	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		//台帳を最新の報告で上書き。行が無いセッションは警告どまり。
		err := r.Payments().UpdateStatus(ctx, sessionID, status, model.PaymentStatus(paymentStatus))
		if errors.Is(err, repo.ErrNotFound) {
			log.Warnf("settle: no ledger row for session %s", sessionID)
		} else if err != nil {
			return err
		}

		if paymentStatus != string(model.PaymentStatusPaid) {
			return nil
		}

		orderID := metadata["order_id"]
		if orderID == "" {
			log.Warnf("settle: order_id missing in metadata (session=%s)", sessionID)
			return nil
		}

		order, err := r.Orders().FindByID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			log.Warnf("settle: order %s not found (session=%s)", orderID, sessionID)
			return nil
		}
		if err != nil {
			return err
		}

		transitioned, err := r.Orders().CompleteIfPending(ctx, orderID)
		if err != nil {
			return err
		}
		if !transitioned {
			//既にcompleted＝再配送や並走。カートはもう触らない
			//（決済後にユーザーが入れ直した商品を消さないため）。
			return nil
		}

		//カートは注文の持ち主のものを空にする
		return r.CartItems().ClearByUserID(ctx, order.UserID)
	})
}
