package testcases

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/tbxark/formstate"
	"github.com/tbxark/formstate/extract"
	"github.com/tbxark/formstate/types"
)

// TestInitialState 测试使用预填充的初始状态
func TestInitialState(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	// 从数据库或其他来源获取的初始数据
	initialState := UserRegistrationForm{
		Name: "王五",
		Age:  28,
	}
	c, submitted := NewRegistrationController(t, initialState, nil)
	t.Logf("初始状态: %+v", c.Snapshot())

	if !c.IsPristine() || !c.IsValid() {
		t.Fatal("没有初始错误时表单应该是 pristine 且有效")
	}

	// 用户补充缺失信息
	if err := c.HandleChange(ctx, "email", extract.Text("wangwu@testcases.com"), formstate.ChangeOptions{}); err != nil {
		t.Fatalf("修改邮箱失败: %v", err)
	}
	if err := c.HandleChange(ctx, "password", extract.Text("wangwu123"), formstate.ChangeOptions{}); err != nil {
		t.Fatalf("修改密码失败: %v", err)
	}

	// 验证初始状态已保留
	state := c.Values()
	if state.Name != "王五" {
		t.Errorf("期望姓名为 '王五'，实际为 '%s'", state.Name)
	}
	if state.Age != 28 {
		t.Errorf("期望年龄为 28，实际为 %d", state.Age)
	}

	dirty, err := c.Dirty()
	if err != nil {
		t.Fatalf("计算修改失败: %v", err)
	}
	want := types.Patch{"email": "wangwu@testcases.com", "password": "wangwu123"}
	if diff := cmp.Diff(want, dirty); diff != "" {
		t.Errorf("修改字段不符 (-want +got):\n%s", diff)
	}

	// 确认提交
	ok, err := c.HandleSubmit(ctx)
	if err != nil || !ok {
		t.Fatalf("确认提交失败 ok=%v err=%v", ok, err)
	}
	if len(*submitted) != 1 {
		t.Fatalf("期望提交一次，实际为 %d", len(*submitted))
	}
}

// TestInitialErrors 测试带有服务端初始错误的表单
func TestInitialErrors(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	c := formstate.New(formstate.Config[UserRegistrationForm]{
		InitialValues: UserRegistrationForm{Email: "taken@testcases.com"},
		InitialErrors: types.ErrorMap{"email": "Email is already registered.", "name": ""},
	})

	// 空消息会被忽略
	if diff := cmp.Diff(types.ErrorMap{"email": "Email is already registered."}, c.Errors()); diff != "" {
		t.Errorf("初始错误不符 (-want +got):\n%s", diff)
	}
	if c.IsPristine() || c.IsValid() {
		t.Fatal("有初始错误时表单既不是 pristine 也不是有效的")
	}
	if got := c.BindFieldError("email"); got != "Email is already registered." {
		t.Errorf("期望显示初始错误，实际为 %q", got)
	}

	// 没有验证器时，修改会清除错误
	if err := c.HandleChange(ctx, "email", extract.Text("new@testcases.com"), formstate.ChangeOptions{}); err != nil {
		t.Fatalf("修改邮箱失败: %v", err)
	}
	if !c.IsValid() || len(c.Errors()) != 0 {
		t.Errorf("修改后错误应被清除: %v", c.Errors())
	}

	// 重置回到初始状态
	c.Reset()
	state := c.Snapshot()
	if state.Values.Email != "taken@testcases.com" {
		t.Errorf("重置后邮箱应恢复，实际为 '%s'", state.Values.Email)
	}
	if state.Errors["email"] != "Email is already registered." {
		t.Errorf("重置后应恢复初始错误: %v", state.Errors)
	}
	if state.IsPristine || state.IsValid {
		t.Error("重置后标记应与初始状态一致")
	}
}
